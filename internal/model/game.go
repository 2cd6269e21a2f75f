package model

import (
	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/tile"
)

// Player is one game participant's seat (§3): created at game start, one
// per gameroom user at the time, holding a private rack.
type Player struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Rack   tile.Tileset
}

// Move is an immutable snapshot of the board and the acting player's
// rack at one point within a turn (§3).
type Move struct {
	ID       uuid.UUID
	TurnID   uuid.UUID
	Revision int
	Board    tile.Board
	Rack     tile.Tileset
}

// Turn is one player's active editing session over the board (§3).
// Revision indexes the currently-visible move; 0 means the starting
// snapshot, before any move this turn.
type Turn struct {
	ID            uuid.UUID
	GameID        uuid.UUID
	PlayerID      uuid.UUID
	StartingRack  tile.Tileset
	StartingBoard tile.Board
	Moves         []Move
	Revision      int
}

// MoveAtRevision returns the move whose Revision equals rev, if present.
func (t Turn) MoveAtRevision(rev int) (Move, bool) {
	for _, m := range t.Moves {
		if m.Revision == rev {
			return m, true
		}
	}
	return Move{}, false
}

// GameState is the shared game surface: players, board, and pile (§3).
type GameState struct {
	ID      uuid.UUID
	GameID  uuid.UUID
	Players []Player
	Board   tile.Board
	Pile    tile.Pile
}

// PlayerByUserID returns the player seated for userID, if any.
func (gs GameState) PlayerByUserID(userID uuid.UUID) (Player, bool) {
	for _, p := range gs.Players {
		if p.UserID == userID {
			return p, true
		}
	}
	return Player{}, false
}

// PlayerIndex returns the index of the player with the given id.
func (gs GameState) PlayerIndex(playerID uuid.UUID) (int, bool) {
	for i, p := range gs.Players {
		if p.ID == playerID {
			return i, true
		}
	}
	return 0, false
}

// Game is the top-level aggregate a running gameroom owns 1:1 (§3).
// TurnOrder is the fixed cyclic order of user ids established at game
// start; MadeMeld is append-only; Winner is terminal once set.
type Game struct {
	ID         uuid.UUID
	GameroomID uuid.UUID
	GameState  GameState
	Turn       Turn
	TurnOrder  []uuid.UUID
	MadeMeld   map[uuid.UUID]struct{}
	Winner     *Player
}

// HasMadeMeld reports whether userID has already satisfied the opening
// meld rule in a prior turn (§8 opening-meld monotonicity).
func (g Game) HasMadeMeld(userID uuid.UUID) bool {
	_, ok := g.MadeMeld[userID]
	return ok
}

// NextInOrder returns the user id following afterUserID in TurnOrder,
// cyclically. Returns false if afterUserID is not present or the order
// is empty.
func (g Game) NextInOrder(afterUserID uuid.UUID) (uuid.UUID, bool) {
	n := len(g.TurnOrder)
	if n == 0 {
		return uuid.Nil, false
	}
	for i, id := range g.TurnOrder {
		if id == afterUserID {
			return g.TurnOrder[(i+1)%n], true
		}
	}
	return uuid.Nil, false
}

// Clone returns a deep-enough copy of Game suitable for the store's
// copy-on-read/copy-on-write semantics (§4.5): slices and maps are
// copied; tile.Board/tile.Tileset are already immutable value types.
func (g Game) Clone() Game {
	clone := g
	clone.GameState.Players = append([]Player(nil), g.GameState.Players...)
	clone.TurnOrder = append([]uuid.UUID(nil), g.TurnOrder...)
	clone.Turn.Moves = append([]Move(nil), g.Turn.Moves...)
	clone.MadeMeld = make(map[uuid.UUID]struct{}, len(g.MadeMeld))
	for k := range g.MadeMeld {
		clone.MadeMeld[k] = struct{}{}
	}
	if g.Winner != nil {
		w := *g.Winner
		clone.Winner = &w
	}
	return clone
}
