// Package httpapi is the HTTP delivery layer of §4.8: gorilla/mux
// handlers that run lobby/engine operations inside a per-request store
// transaction, then publish the resulting event batch to the bus.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tom-bartk/tuicub-server/internal/auth"
	"github.com/tom-bartk/tuicub-server/internal/bus"
	"github.com/tom-bartk/tuicub-server/internal/dictionary"
	"github.com/tom-bartk/tuicub-server/internal/rng"
	"github.com/tom-bartk/tuicub-server/internal/store"
)

// Deps bundles every collaborator a handler needs. Handlers are methods
// on *Deps so they share one set of dependencies without a global.
type Deps struct {
	Store *store.Store
	Auth  *auth.Service
	Dict  *dictionary.Service
	Bus   *bus.Client
	RNG   rng.Source
}

// NewRouter builds the full route table (§4.8, §6).
func NewRouter(deps *Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(recoveryMiddleware, corsMiddleware, loggingMiddleware)

	r.HandleFunc("/users", deps.createUser).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(deps.authMiddleware)

	authed.HandleFunc("/gamerooms", deps.listGamerooms).Methods(http.MethodGet)
	authed.HandleFunc("/gamerooms", deps.createGameroom).Methods(http.MethodPost)
	authed.HandleFunc("/gamerooms/{id}/users", deps.joinGameroom).Methods(http.MethodPost)
	authed.HandleFunc("/gamerooms/{id}/users", deps.leaveGameroom).Methods(http.MethodDelete)
	authed.HandleFunc("/gamerooms/{id}", deps.deleteGameroom).Methods(http.MethodDelete)
	authed.HandleFunc("/gamerooms/{id}/game", deps.startGame).Methods(http.MethodPost)

	authed.HandleFunc("/games/{id}/moves", deps.move).Methods(http.MethodPost)
	authed.HandleFunc("/games/{id}/moves", deps.undo).Methods(http.MethodDelete)
	authed.HandleFunc("/games/{id}/moves", deps.redo).Methods(http.MethodPatch)
	authed.HandleFunc("/games/{id}/turns/end", deps.endTurn).Methods(http.MethodPost)
	authed.HandleFunc("/games/{id}/turns/draw", deps.draw).Methods(http.MethodPost)

	r.HandleFunc("/gamerooms/disconnect", deps.disconnect).Methods(http.MethodPost)

	return r
}
