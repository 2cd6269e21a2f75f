package httpapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startedGame creates two users, puts them in a gameroom, and starts the
// game, returning both bearer tokens and the game id.
func startedGame(t *testing.T, srv *testServer) (ownerToken, joinerToken, gameID string) {
	t.Helper()
	_, ownerToken = srv.createUser(t, "owner")
	_, joinerToken = srv.createUser(t, "joiner")

	createRec := srv.do(authedRequest(http.MethodPost, "/gamerooms", ownerToken, nil))
	require.Equal(t, http.StatusCreated, createRec.Code)
	var gameroom struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &gameroom))

	require.Equal(t, http.StatusOK, srv.do(authedRequest(http.MethodPost, "/gamerooms/"+gameroom.ID+"/users", joinerToken, nil)).Code)

	startRec := srv.do(authedRequest(http.MethodPost, "/gamerooms/"+gameroom.ID+"/game", ownerToken, nil))
	require.Equal(t, http.StatusCreated, startRec.Code)
	var game struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(startRec.Body.Bytes(), &game))

	return ownerToken, joinerToken, game.ID
}

// currentTurnToken figures out which of the two tokens currently holds
// the turn by attempting an undo: the engine checks turn ownership
// before the turn's revision, so a "not your turn" response identifies
// the other player as the turn holder.
func currentTurnToken(t *testing.T, srv *testServer, gameID, first, second string) (turnToken, otherToken string) {
	t.Helper()
	// An undo at the start of a turn is rejected for both players and
	// changes nothing: the turn holder gets "There is no move to undo.",
	// the other player "It is not your turn." (§4.3 ordering of checks).
	rec := srv.do(authedRequest(http.MethodDelete, "/games/"+gameID+"/moves", first, nil))
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if rec.Code == http.StatusOK || body.Message != "It is not your turn." {
		return first, second
	}
	return second, first
}

func TestMoveRejectsOutOfTurn(t *testing.T) {
	srv := newTestServer(t)
	ownerToken, joinerToken, gameID := startedGame(t, srv)

	turnToken, otherToken := currentTurnToken(t, srv, gameID, ownerToken, joinerToken)
	require.NotEmpty(t, turnToken)

	rec := srv.do(authedRequest(http.MethodPost, "/games/"+gameID+"/moves", otherToken, []byte(`{"board":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "It is not your turn.", body.Message)
}

func TestUndoWithoutAMoveFails(t *testing.T) {
	srv := newTestServer(t)
	ownerToken, joinerToken, gameID := startedGame(t, srv)
	turnToken, _ := currentTurnToken(t, srv, gameID, ownerToken, joinerToken)

	rec := srv.do(authedRequest(http.MethodDelete, "/games/"+gameID+"/moves", turnToken, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndTurnWithoutAMoveFails(t *testing.T) {
	srv := newTestServer(t)
	ownerToken, joinerToken, gameID := startedGame(t, srv)
	turnToken, _ := currentTurnToken(t, srv, gameID, ownerToken, joinerToken)

	rec := srv.do(authedRequest(http.MethodPost, "/games/"+gameID+"/turns/end", turnToken, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No moves were performed this turn.", body.Message)
}

func TestDrawAddsATileAndHandsOffTurn(t *testing.T) {
	srv := newTestServer(t)
	ownerToken, joinerToken, gameID := startedGame(t, srv)
	turnToken, otherToken := currentTurnToken(t, srv, gameID, ownerToken, joinerToken)

	rec := srv.do(authedRequest(http.MethodPost, "/games/"+gameID+"/turns/draw", turnToken, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var game struct {
		Rack []int `json:"rack"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.Len(t, game.Rack, 15)

	// Turn moved on; a second draw by the same player is now out of turn.
	second := srv.do(authedRequest(http.MethodPost, "/games/"+gameID+"/turns/draw", turnToken, nil))
	assert.Equal(t, http.StatusBadRequest, second.Code)

	_ = otherToken
}

func TestMoveRejectsNonUUIDGameID(t *testing.T) {
	srv := newTestServer(t)
	_, token := srv.createUser(t, "solo")

	rec := srv.do(authedRequest(http.MethodPost, "/games/not-a-uuid/moves", token, []byte(`{"board":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
