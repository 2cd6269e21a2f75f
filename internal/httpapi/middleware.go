package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

// recoveryMiddleware turns a panicking handler into a 500 instead of
// killing the worker, matching the decorator wrapper described in §4.8.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Get().Error("handler_panic", zap.Any("recovered", rec), zap.String("path", r.URL.Path))
				internal := apperr.Business("internal_error", "Internal server error.")
				internal.HTTPCode = http.StatusInternalServerError
				writeError(w, internal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds permissive CORS headers so a browser-based client
// on a different origin can call the API, short-circuiting preflight
// OPTIONS requests before they reach the router.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		log := logger.WithRequestContext(requestID, r.Method, r.URL.Path, "")
		r = r.WithContext(withLogger(r.Context(), log))

		next.ServeHTTP(w, r)

		log.Info("request_handled", zap.Duration("duration", time.Since(start)))
	})
}

// authMiddleware resolves the bearer token into a user and rejects the
// request with 401 otherwise (§4.6, §6).
func (d *Deps) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		user, err := d.Auth.AuthorizeUser(token)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, withUser(r, user))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
