package event

import (
	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/model"
)

// AllPlayerUserIDs returns the user ids of every seated player, in
// turn-order — the recipient set for "all players" events and the
// ordering the players_changed payload uses (§4.7).
func AllPlayerUserIDs(game model.Game) []uuid.UUID {
	out := make([]uuid.UUID, len(game.TurnOrder))
	copy(out, game.TurnOrder)
	return out
}

// BoardChanged fires to every player with the new board and the tile ids
// added since the previous board (§4.7).
func BoardChanged(game model.Game, newTiles []int) Event {
	return new_(NameBoardChanged, BoardPayload{Board: game.GameState.Board, NewTiles: newTiles}, AllPlayerUserIDs(game))
}

// PlayersChanged fires to every player with the turn-ordered player list
// (§4.7).
func PlayersChanged(game model.Game) Event {
	ordered := orderPlayersByTurnOrder(game)
	return new_(NamePlayersChanged, PlayersPayload{Players: ordered, TurnOrder: game.TurnOrder}, AllPlayerUserIDs(game))
}

func orderPlayersByTurnOrder(game model.Game) []model.Player {
	out := make([]model.Player, 0, len(game.TurnOrder))
	for _, userID := range game.TurnOrder {
		if p, ok := game.GameState.PlayerByUserID(userID); ok {
			out = append(out, p)
		}
	}
	return out
}

// RackChanged fires only to the acting player with their new rack
// (§4.7).
func RackChanged(game model.Game, actingUserID uuid.UUID) Event {
	player, _ := game.GameState.PlayerByUserID(actingUserID)
	return new_(NameRackChanged, RackPayload{Rack: player.Rack}, []uuid.UUID{actingUserID})
}

// PileCountChanged fires to every player with the current pile size
// (§4.7).
func PileCountChanged(game model.Game) Event {
	return new_(NamePileCountChanged, PileCountPayload{Count: game.GameState.Pile.Len()}, AllPlayerUserIDs(game))
}

// TileDrawn fires only to the drawer with the drawn tile id (§4.7).
func TileDrawn(drawerUserID uuid.UUID, tileID int) Event {
	return new_(NameTileDrawn, TileDrawnPayload{Tile: tileID}, []uuid.UUID{drawerUserID})
}

// TurnEnded fires to the player who just gave up the turn (§4.7).
func TurnEnded(previousHolderUserID uuid.UUID) Event {
	return new_(NameTurnEnded, EmptyPayload{}, []uuid.UUID{previousHolderUserID})
}

// TurnStarted fires to the player who now holds the turn (§4.7).
func TurnStarted(newHolderUserID uuid.UUID) Event {
	return new_(NameTurnStarted, EmptyPayload{}, []uuid.UUID{newHolderUserID})
}

// PlayerLeft fires to the remaining players when someone disconnects
// from a running game (§4.7).
func PlayerLeft(remainingGame model.Game, leftPlayer model.Player) Event {
	return new_(NamePlayerLeft, PlayerPayload{Player: leftPlayer}, AllPlayerUserIDs(remainingGame))
}

// PlayerWon fires to every remaining player once a winner is decided
// (§4.7).
func PlayerWon(game model.Game, winner model.Player) Event {
	return new_(NamePlayerWon, WinnerPayload{Winner: winner}, AllPlayerUserIDs(game))
}
