package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/dto"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err to the {message} body §7 mandates, logging the
// error_name and any attached info on the way out.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Business("internal_error", "Internal server error.")
	}

	fields := []zap.Field{zap.String("error_name", appErr.ErrorName)}
	for k, v := range appErr.Info {
		fields = append(fields, zap.Any(k, v))
	}
	logger.Get().Error("request_failed", fields...)

	writeJSON(w, appErr.HTTPCode, dto.ErrorPayload{Message: appErr.Message})
}

func decodeJSON(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return apperr.Validation("The request body is not valid JSON.")
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidIdentifier()
	}
	return id, nil
}
