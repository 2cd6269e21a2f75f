package event

import (
	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"github.com/tom-bartk/tuicub-server/internal/tile"
)

// Payload types carry domain values, not wire shapes: presentation
// ordering and JSON field naming are the delivery layer's job (§4.1
// Supplemental Feature — canonical tilesets stay canonical until the DTO
// boundary).

type UserPayload struct {
	User model.User
}

type GameroomPayload struct {
	Gameroom model.Gameroom
}

// GamePayload carries the full game plus whose rack the recipient is
// entitled to see; the DTO mapper uses ViewerUserID to build a per-player
// view (§4.7: game_started's data is a per-player view including rack).
type GamePayload struct {
	Game         model.Game
	ViewerUserID uuid.UUID
}

type BoardPayload struct {
	Board    tile.Board
	NewTiles []int
}

type PlayersPayload struct {
	Players   []model.Player
	TurnOrder []uuid.UUID
}

type RackPayload struct {
	Rack tile.Tileset
}

type PileCountPayload struct {
	Count int
}

type TileDrawnPayload struct {
	Tile int
}

type PlayerPayload struct {
	Player model.Player
}

type WinnerPayload struct {
	Winner model.Player
}

type EmptyPayload struct{}
