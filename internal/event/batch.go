package event

import (
	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/model"
)

// Batch builders assemble the full, ordered event sequence a mutation
// emits (§4.7: "a single mutation emits its events as a single batch...
// the events process must preserve batch order per recipient"). Ordering
// below follows the literal end-to-end scenarios in §8 rather than the
// table's row order, since the scenarios are the authoritative sequence.

func diffTileIDs(before, after interface{ AllTiles() map[int]struct{} }) []int {
	beforeSet := before.AllTiles()
	out := make([]int, 0)
	for id := range after.AllTiles() {
		if _, ok := beforeSet[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func playerUserID(game model.Game, playerID uuid.UUID) (uuid.UUID, bool) {
	for _, p := range game.GameState.Players {
		if p.ID == playerID {
			return p.UserID, true
		}
	}
	return uuid.Nil, false
}

// ForJoin is the batch for a successful lobby join.
func ForJoin(gameroomAfter model.Gameroom, joiner model.User) []Event {
	return []Event{UserJoined(gameroomAfter, joiner)}
}

// ForLeave is the batch for a successful lobby leave.
func ForLeave(gameroomAfter model.Gameroom, leaver model.User) []Event {
	return []Event{UserLeft(gameroomAfter, leaver)}
}

// ForDelete is the batch for a successful lobby delete.
func ForDelete(gameroomAfter model.Gameroom, remainingUsers []model.User) []Event {
	return []Event{GameroomDeleted(gameroomAfter, remainingUsers)}
}

// ForStartGame is the batch for a successful lobby start.
func ForStartGame(game model.Game, starterUserID uuid.UUID) []Event {
	return GameStarted(game, starterUserID)
}

// ForMove is the batch for a successful move.
func ForMove(before, after model.Game, actingUserID uuid.UUID) []Event {
	newTiles := diffTileIDs(before.GameState.Board, after.GameState.Board)
	return []Event{
		BoardChanged(after, newTiles),
		PlayersChanged(after),
		RackChanged(after, actingUserID),
	}
}

// ForUndo is the batch for a successful undo.
func ForUndo(before, after model.Game, actingUserID uuid.UUID) []Event {
	newTiles := diffTileIDs(before.GameState.Board, after.GameState.Board)
	return []Event{
		BoardChanged(after, newTiles),
		PlayersChanged(after),
		RackChanged(after, actingUserID),
	}
}

// ForRedo is the batch for a successful redo.
func ForRedo(before, after model.Game, actingUserID uuid.UUID) []Event {
	newTiles := diffTileIDs(before.GameState.Board, after.GameState.Board)
	return []Event{
		BoardChanged(after, newTiles),
		PlayersChanged(after),
		RackChanged(after, actingUserID),
	}
}

// ForEndTurn is the batch for a successful end-turn, either declaring a
// winner or handing the turn to the next player (§8 scenario 3).
func ForEndTurn(before, after model.Game, actingUserID uuid.UUID) []Event {
	if after.Winner != nil {
		return []Event{
			PlayersChanged(after),
			PlayerWon(after, *after.Winner),
		}
	}

	newHolderUserID, _ := playerUserID(after, after.Turn.PlayerID)
	return []Event{
		BoardChanged(after, diffTileIDs(before.GameState.Board, after.GameState.Board)),
		PlayersChanged(after),
		TurnEnded(actingUserID),
		TurnStarted(newHolderUserID),
	}
}

// ForDraw is the batch for a successful draw.
func ForDraw(before, after model.Game, actingUserID uuid.UUID, drawnTile int) []Event {
	newHolderUserID, _ := playerUserID(after, after.Turn.PlayerID)
	return []Event{
		RackChanged(after, actingUserID),
		PileCountChanged(after),
		TileDrawn(actingUserID, drawnTile),
		TurnEnded(actingUserID),
		TurnStarted(newHolderUserID),
	}
}

// ForDisconnectGame is the batch for a game-layer disconnect, covering
// both the ordinary hand-off case (§8 scenario 5) and the
// last-opponent-wins case (§8 scenario 6).
func ForDisconnectGame(before, after model.Game, disconnectingPlayer model.Player) []Event {
	events := []Event{
		PlayerLeft(after, disconnectingPlayer),
		PlayersChanged(after),
	}

	if after.Winner != nil {
		return append(events, PlayerWon(after, *after.Winner))
	}

	events = append(events, PileCountChanged(after))

	turnHolderChanged := before.Turn.PlayerID == disconnectingPlayer.ID
	if turnHolderChanged {
		newHolderUserID, _ := playerUserID(after, after.Turn.PlayerID)
		events = append(events,
			BoardChanged(after, diffTileIDs(before.GameState.Board, after.GameState.Board)),
			TurnStarted(newHolderUserID),
		)
	}

	return events
}
