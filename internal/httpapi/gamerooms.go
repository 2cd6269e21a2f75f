package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/dto"
	"github.com/tom-bartk/tuicub-server/internal/engine"
	"github.com/tom-bartk/tuicub-server/internal/event"
	"github.com/tom-bartk/tuicub-server/internal/lobby"
	"github.com/tom-bartk/tuicub-server/internal/model"
)

// listGamerooms handles GET /gamerooms (§6).
func (d *Deps) listGamerooms(w http.ResponseWriter, r *http.Request) {
	rooms := d.Store.ListGamerooms()
	out := make([]dto.Gameroom, len(rooms))
	for i, g := range rooms {
		out[i] = dto.ToGameroom(g)
	}
	writeJSON(w, http.StatusOK, out)
}

// createGameroom handles POST /gamerooms (§4.4, §6).
func (d *Deps) createGameroom(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.InGameroom() {
		writeError(w, apperr.AlreadyInGameroom())
		return
	}

	gameroom := lobby.Create(user)
	d.Store.InsertGameroom(gameroom)

	user.CurrentGameroomID = &gameroom.ID
	d.Store.SaveUser(user)

	writeJSON(w, http.StatusCreated, dto.ToGameroom(gameroom))
}

// joinGameroom handles POST /gamerooms/{id}/users (§4.4, §6).
func (d *Deps) joinGameroom(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.InGameroom() {
		writeError(w, apperr.AlreadyInGameroom())
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := d.Store.WithGameroomLock(id, func(gr model.Gameroom) (model.Gameroom, error) {
		return lobby.Join(gr, user)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	user.CurrentGameroomID = &id
	d.Store.SaveUser(user)

	d.publish(event.ForJoin(updated, user))
	writeJSON(w, http.StatusOK, dto.ToGameroom(updated))
}

// leaveGameroom handles DELETE /gamerooms/{id}/users (§4.4, §6).
func (d *Deps) leaveGameroom(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := d.Store.WithGameroomLock(id, func(gr model.Gameroom) (model.Gameroom, error) {
		return lobby.Leave(gr, user.ID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	user.CurrentGameroomID = nil
	d.Store.SaveUser(user)

	d.publish(event.ForLeave(updated, user))
	writeJSON(w, http.StatusOK, dto.ToGameroom(updated))
}

// deleteGameroom handles DELETE /gamerooms/{id} (§4.4, §6: owner only).
func (d *Deps) deleteGameroom(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var remaining []model.User
	updated, err := d.Store.WithGameroomLock(id, func(gr model.Gameroom) (model.Gameroom, error) {
		next, rem, derr := lobby.Delete(gr, user.ID)
		remaining = rem
		return next, derr
	})
	if err != nil {
		writeError(w, err)
		return
	}

	for _, u := range remaining {
		cleared := u
		cleared.CurrentGameroomID = nil
		d.Store.SaveUser(cleared)
	}

	d.publish(event.ForDelete(updated, remaining))
	writeJSON(w, http.StatusOK, dto.ToGameroom(updated))
}

// startGame handles POST /gamerooms/{id}/game (§4.4, §6: owner only).
func (d *Deps) startGame(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := d.Store.WithGameroomLock(id, func(gr model.Gameroom) (model.Gameroom, error) {
		return lobby.StartGame(gr, user.ID, d.RNG)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	d.publish(event.ForStartGame(*updated.Game, user.ID))
	writeJSON(w, http.StatusCreated, dto.ToGame(*updated.Game, user.ID))
}

type disconnectBody struct {
	UserID uuid.UUID `json:"user_id"`
}

type disconnectResponse struct {
	Success bool `json:"success"`
}

// disconnect handles POST /gamerooms/disconnect (§4.10: events-secret
// auth, not a user bearer token).
func (d *Deps) disconnect(w http.ResponseWriter, r *http.Request) {
	if err := d.Auth.AuthorizeEventsServer(bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}

	var body disconnectBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, ok := d.Store.UserByID(body.UserID)
	if !ok || !user.InGameroom() {
		writeJSON(w, http.StatusOK, disconnectResponse{Success: true})
		return
	}
	gameroomID := *user.CurrentGameroomID

	gameroom, ok := d.Store.GameroomByID(gameroomID)
	if !ok {
		writeJSON(w, http.StatusOK, disconnectResponse{Success: true})
		return
	}

	if gameroom.Game != nil && gameroom.Status == model.GameroomRunning {
		d.disconnectFromGame(gameroom.Game.ID, user)
	} else {
		d.disconnectFromLobby(gameroomID, user)
	}

	writeJSON(w, http.StatusOK, disconnectResponse{Success: true})
}

func (d *Deps) disconnectFromGame(gameID uuid.UUID, user model.User) {
	var before model.Game
	after, gameroom, err := d.Store.WithGameLock(gameID, func(g model.Game) (model.Game, error) {
		before = g
		return engine.DisconnectGame(g, user.ID, d.RNG)
	})
	if err != nil {
		return
	}

	user.CurrentGameroomID = nil
	d.Store.SaveUser(user)

	if after.Winner != nil {
		if _, ferr := d.Store.WithGameroomLock(gameroom.ID, func(gr model.Gameroom) (model.Gameroom, error) {
			return lobby.FinishGame(gr)
		}); ferr != nil {
			return
		}
	}

	player, _ := before.GameState.PlayerByUserID(user.ID)
	d.publish(event.ForDisconnectGame(before, after, player))
}

func (d *Deps) disconnectFromLobby(gameroomID uuid.UUID, user model.User) {
	var remaining []model.User
	var deleted bool
	updated, err := d.Store.WithGameroomLock(gameroomID, func(gr model.Gameroom) (model.Gameroom, error) {
		next, rem, del, derr := lobby.Disconnect(gr, user.ID)
		remaining, deleted = rem, del
		return next, derr
	})
	if err != nil {
		return
	}

	user.CurrentGameroomID = nil
	d.Store.SaveUser(user)

	if deleted {
		for _, u := range remaining {
			cleared := u
			cleared.CurrentGameroomID = nil
			d.Store.SaveUser(cleared)
		}
		d.publish(event.ForDelete(updated, remaining))
		return
	}
	d.publish(event.ForLeave(updated, user))
}
