package event_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tom-bartk/tuicub-server/internal/engine"
	"github.com/tom-bartk/tuicub-server/internal/event"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"github.com/tom-bartk/tuicub-server/internal/rng"
)

func twoUserGameroom() (model.Gameroom, model.User, model.User) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	gr := model.Gameroom{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Status:  model.GameroomStarting,
		Users:   []model.User{owner, joiner},
	}
	return gr, owner, joiner
}

func TestUserJoinedExcludesJoiner(t *testing.T) {
	gr, owner, joiner := twoUserGameroom()

	ev := event.UserJoined(gr, joiner)
	assert.Equal(t, event.NameUserJoined, ev.Name())
	assert.ElementsMatch(t, []uuid.UUID{owner.ID}, ev.Recipients())
}

func TestUserLeftIncludesRemainingMembers(t *testing.T) {
	gr, owner, _ := twoUserGameroom()
	after := gr
	after.Users = []model.User{owner}

	ev := event.UserLeft(after, model.User{ID: uuid.New()})
	assert.ElementsMatch(t, []uuid.UUID{owner.ID}, ev.Recipients())
}

func TestGameroomDeletedExcludesDeletingOwner(t *testing.T) {
	gr, _, joiner := twoUserGameroom()
	ev := event.GameroomDeleted(gr, []model.User{joiner})
	assert.Equal(t, event.NameGameroomDeleted, ev.Name())
	assert.Equal(t, []uuid.UUID{joiner.ID}, ev.Recipients())
}

func TestGameStartedExcludesStarterAndTargetsEachOtherPlayer(t *testing.T) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	game := engine.StartGame(uuid.New(), []model.User{owner, joiner}, rng.New(1))

	events := event.GameStarted(game, owner.ID)
	require.Len(t, events, 1)
	assert.Equal(t, []uuid.UUID{joiner.ID}, events[0].Recipients())
	assert.Equal(t, event.NameGameStarted, events[0].Name())
}

func TestRackChangedTargetsOnlyActingPlayer(t *testing.T) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	game := engine.StartGame(uuid.New(), []model.User{owner, joiner}, rng.New(1))

	ev := event.RackChanged(game, owner.ID)
	assert.Equal(t, []uuid.UUID{owner.ID}, ev.Recipients())
	payload, ok := ev.Data().(event.RackPayload)
	require.True(t, ok)
	player, _ := game.GameState.PlayerByUserID(owner.ID)
	assert.True(t, payload.Rack.Equal(player.Rack))
}

func TestBoardChangedAndPlayersChangedTargetAllPlayers(t *testing.T) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	game := engine.StartGame(uuid.New(), []model.User{owner, joiner}, rng.New(1))

	board := event.BoardChanged(game, nil)
	players := event.PlayersChanged(game)

	assert.ElementsMatch(t, []uuid.UUID{owner.ID, joiner.ID}, board.Recipients())
	assert.ElementsMatch(t, []uuid.UUID{owner.ID, joiner.ID}, players.Recipients())
}

func TestForEndTurnDeclaresWinnerBatch(t *testing.T) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	before := engine.StartGame(uuid.New(), []model.User{owner, joiner}, rng.New(1))

	after := before.Clone()
	winner := after.GameState.Players[0]
	after.Winner = &winner

	batch := event.ForEndTurn(before, after, owner.ID)
	require.Len(t, batch, 2)
	assert.Equal(t, event.NamePlayersChanged, batch[0].Name())
	assert.Equal(t, event.NamePlayerWon, batch[1].Name())
}

func TestForEndTurnAdvancesTurnBatch(t *testing.T) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	before := engine.StartGame(uuid.New(), []model.User{owner, joiner}, rng.New(1))

	after := before.Clone()
	after.Turn.PlayerID = after.GameState.Players[1].ID

	batch := event.ForEndTurn(before, after, owner.ID)
	require.Len(t, batch, 4)
	names := []string{batch[0].Name(), batch[1].Name(), batch[2].Name(), batch[3].Name()}
	assert.Equal(t, []string{
		event.NameBoardChanged,
		event.NamePlayersChanged,
		event.NameTurnEnded,
		event.NameTurnStarted,
	}, names)
	assert.Equal(t, []uuid.UUID{owner.ID}, batch[2].Recipients())
	assert.Equal(t, []uuid.UUID{joiner.ID}, batch[3].Recipients())
}

func TestForDrawBatchOrderAndRecipients(t *testing.T) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	before := engine.StartGame(uuid.New(), []model.User{owner, joiner}, rng.New(1))
	after := before.Clone()
	after.Turn.PlayerID = after.GameState.Players[1].ID

	batch := event.ForDraw(before, after, owner.ID, 5)
	require.Len(t, batch, 5)
	assert.Equal(t, event.NameRackChanged, batch[0].Name())
	assert.Equal(t, event.NamePileCountChanged, batch[1].Name())
	assert.Equal(t, event.NameTileDrawn, batch[2].Name())
	assert.Equal(t, event.NameTurnEnded, batch[3].Name())
	assert.Equal(t, event.NameTurnStarted, batch[4].Name())
}

func TestForDisconnectGameWithoutTurnHandoff(t *testing.T) {
	owner := model.User{ID: uuid.New(), Name: "owner"}
	joiner := model.User{ID: uuid.New(), Name: "joiner"}
	third := model.User{ID: uuid.New(), Name: "third"}
	before := engine.StartGame(uuid.New(), []model.User{owner, joiner, third}, rng.New(1))

	leaving, err := engine.DisconnectGame(before, joiner.ID, rng.New(2))
	require.NoError(t, err)
	if before.Turn.PlayerID == joiner.ID {
		t.Skip("seed picked the leaving player as turn holder; batch shape differs")
	}

	disconnectedPlayer, _ := before.GameState.PlayerByUserID(joiner.ID)
	batch := event.ForDisconnectGame(before, leaving, disconnectedPlayer)
	require.Len(t, batch, 3)
	assert.Equal(t, event.NamePlayerLeft, batch[0].Name())
	assert.Equal(t, event.NamePlayersChanged, batch[1].Name())
	assert.Equal(t, event.NamePileCountChanged, batch[2].Name())
}
