// Package dto maps domain types to the wire shapes of §6. This is the
// one place presentation ordering (§4.1) is applied — domain tilesets
// stay canonically sorted right up to this boundary.
package dto

import (
	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"github.com/tom-bartk/tuicub-server/internal/tile"
)

type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func ToUser(u model.User) User {
	return User{ID: u.ID, Name: u.Name}
}

// CreatedUser is the response to POST /users (§6): the new user plus
// their bearer token, never shown again after this response.
type CreatedUser struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Gameroom struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Status    string     `json:"status"`
	CreatedAt int64      `json:"created_at"`
	Users     []User     `json:"users"`
	GameID    *uuid.UUID `json:"game_id"`
}

func ToGameroom(g model.Gameroom) Gameroom {
	users := make([]User, len(g.Users))
	for i, u := range g.Users {
		users[i] = ToUser(u)
	}
	var gameID *uuid.UUID
	if g.Game != nil {
		id := g.Game.ID
		gameID = &id
	}
	return Gameroom{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		Status:    string(g.Status),
		CreatedAt: g.CreatedAt.UnixMilli(),
		Users:     users,
		GameID:    gameID,
	}
}

type Player struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	TilesCount  int       `json:"tiles_count"`
	HasTurn     bool      `json:"has_turn"`
}

// ToPlayers renders game's players ordered by turn_order, each flagged
// with whether they currently hold the turn (§6).
func ToPlayers(game model.Game) []Player {
	out := make([]Player, 0, len(game.TurnOrder))
	for _, userID := range game.TurnOrder {
		p, ok := game.GameState.PlayerByUserID(userID)
		if !ok {
			continue
		}
		out = append(out, Player{
			UserID:     p.UserID,
			Name:       p.Name,
			TilesCount: p.Rack.Len(),
			HasTurn:    p.ID == game.Turn.PlayerID,
		})
	}
	return out
}

// Board renders a board as presentation-ordered tile id rows (§4.1).
func Board(b tile.Board) [][]int {
	sets := b.Sets()
	out := make([][]int, len(sets))
	for i, s := range sets {
		out[i] = s.Presentation()
	}
	return out
}

// Rack renders a tileset as a presentation-ordered flat id list.
func Rack(t tile.Tileset) []int {
	return t.Presentation()
}

type GameState struct {
	Players   []Player `json:"players"`
	Board     [][]int  `json:"board"`
	PileCount int      `json:"pile_count"`
	Rack      []int    `json:"rack"`
}

// ToGameState renders game's state as viewerUserID would see it: only a
// seated viewer's own rack is populated (§6).
func ToGameState(game model.Game, viewerUserID uuid.UUID) GameState {
	rack := []int{}
	if p, ok := game.GameState.PlayerByUserID(viewerUserID); ok {
		rack = Rack(p.Rack)
	}
	return GameState{
		Players:   ToPlayers(game),
		Board:     Board(game.GameState.Board),
		PileCount: game.GameState.Pile.Len(),
		Rack:      rack,
	}
}

type Game struct {
	ID         uuid.UUID  `json:"id"`
	GameroomID uuid.UUID  `json:"gameroom_id"`
	GameState  GameState  `json:"game_state"`
	Winner     *Player    `json:"winner"`
}

// ToGame renders game as viewerUserID would see it (§6).
func ToGame(game model.Game, viewerUserID uuid.UUID) Game {
	var winner *Player
	if game.Winner != nil {
		winner = &Player{
			UserID:     game.Winner.UserID,
			Name:       game.Winner.Name,
			TilesCount: game.Winner.Rack.Len(),
			HasTurn:    false,
		}
	}
	return Game{
		ID:         game.ID,
		GameroomID: game.GameroomID,
		GameState:  ToGameState(game, viewerUserID),
		Winner:     winner,
	}
}

// ErrorPayload is the body of every non-2xx response (§6).
type ErrorPayload struct {
	Message string `json:"message"`
}
