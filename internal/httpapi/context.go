package httpapi

import (
	"context"
	"net/http"

	"github.com/tom-bartk/tuicub-server/internal/logger"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"go.uber.org/zap"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	loggerCtxKey
)

func withUser(r *http.Request, user model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userCtxKey, user))
}

// currentUser returns the authenticated caller, bound by authMiddleware.
func currentUser(r *http.Request) model.User {
	user, _ := r.Context().Value(userCtxKey).(model.User)
	return user
}

func withLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, log)
}

// requestLogger returns the per-request logger attached by
// loggingMiddleware, falling back to the global logger.
func requestLogger(r *http.Request) *zap.Logger {
	if log, ok := r.Context().Value(loggerCtxKey).(*zap.Logger); ok {
		return log
	}
	return logger.Get()
}
