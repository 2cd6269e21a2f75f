package httpapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/auth"
	"github.com/tom-bartk/tuicub-server/internal/dto"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"go.uber.org/zap"
)

type createUserBody struct {
	Name string `json:"name"`
}

// createUser handles POST /users (§6: no auth, 201 {user,token}).
func (d *Deps) createUser(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeError(w, apperr.Validation("name must not be empty."))
		return
	}

	user := model.User{ID: uuid.New(), Name: name}
	token := model.UserToken{ID: uuid.New(), UserID: user.ID, Token: auth.GenerateToken()}
	d.Store.CreateUser(name, token, user)

	if err := d.Bus.SendUserRegistered(user.ID, token.Token); err != nil {
		logger.Get().Warn("user_registered_publish_failed", zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, dto.CreatedUser{
		User:  dto.ToUser(user),
		Token: token.Token,
	})
}
