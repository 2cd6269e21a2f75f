package httpapi

import (
	"net/http"

	"github.com/tom-bartk/tuicub-server/internal/dto"
	"github.com/tom-bartk/tuicub-server/internal/engine"
	"github.com/tom-bartk/tuicub-server/internal/event"
	"github.com/tom-bartk/tuicub-server/internal/lobby"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"github.com/tom-bartk/tuicub-server/internal/tile"
)

type moveBody struct {
	Board [][]int `json:"board"`
}

func candidateBoard(body moveBody) tile.Board {
	sets := make([]tile.Tileset, 0, len(body.Board))
	for _, row := range body.Board {
		sets = append(sets, tile.NewTileset(row...))
	}
	return tile.NewBoard(sets...)
}

// move handles POST /games/{id}/moves (§4.3, §6).
func (d *Deps) move(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body moveBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	board := candidateBoard(body)

	var before model.Game
	after, _, err := d.Store.WithGameLock(id, func(g model.Game) (model.Game, error) {
		before = g
		return engine.Move(g, user.ID, board)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	d.publish(event.ForMove(before, after, user.ID))
	writeJSON(w, http.StatusOK, dto.ToGameState(after, user.ID))
}

// undo handles DELETE /games/{id}/moves (§4.3, §6).
func (d *Deps) undo(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var before model.Game
	after, _, err := d.Store.WithGameLock(id, func(g model.Game) (model.Game, error) {
		before = g
		return engine.Undo(g, user.ID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	d.publish(event.ForUndo(before, after, user.ID))
	writeJSON(w, http.StatusOK, dto.ToGameState(after, user.ID))
}

// redo handles PATCH /games/{id}/moves (§4.3, §6).
func (d *Deps) redo(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var before model.Game
	after, _, err := d.Store.WithGameLock(id, func(g model.Game) (model.Game, error) {
		before = g
		return engine.Redo(g, user.ID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	d.publish(event.ForRedo(before, after, user.ID))
	writeJSON(w, http.StatusOK, dto.ToGameState(after, user.ID))
}

// endTurn handles POST /games/{id}/turns/end (§4.3, §6). A winning turn
// also finishes the owning gameroom (§4.4).
func (d *Deps) endTurn(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var before model.Game
	after, gameroom, err := d.Store.WithGameLock(id, func(g model.Game) (model.Game, error) {
		before = g
		return engine.EndTurn(g, user.ID, d.Dict)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if after.Winner != nil {
		if _, ferr := d.Store.WithGameroomLock(gameroom.ID, func(gr model.Gameroom) (model.Gameroom, error) {
			return lobby.FinishGame(gr)
		}); ferr != nil {
			writeError(w, ferr)
			return
		}
	}

	d.publish(event.ForEndTurn(before, after, user.ID))
	writeJSON(w, http.StatusOK, dto.ToGameState(after, user.ID))
}

// draw handles POST /games/{id}/turns/draw (§4.3, §6).
func (d *Deps) draw(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var before model.Game
	after, _, err := d.Store.WithGameLock(id, func(g model.Game) (model.Game, error) {
		before = g
		return engine.Draw(g, user.ID, d.RNG)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	beforePlayer, _ := before.GameState.PlayerByUserID(user.ID)
	afterPlayer, _ := after.GameState.PlayerByUserID(user.ID)
	drawn := newRackTile(beforePlayer.Rack, afterPlayer.Rack)

	d.publish(event.ForDraw(before, after, user.ID, drawn))
	writeJSON(w, http.StatusOK, dto.ToGameState(after, user.ID))
}

func newRackTile(before, after tile.Tileset) int {
	beforeSet := before.Set()
	for _, id := range after.Tiles() {
		if _, ok := beforeSet[id]; !ok {
			return id
		}
	}
	return -1
}
