package dto

import (
	"github.com/tom-bartk/tuicub-server/internal/event"
	"github.com/tom-bartk/tuicub-server/internal/model"
)

type UserEventData struct {
	User User `json:"user"`
}

type GameroomEventData struct {
	Gameroom Gameroom `json:"gameroom"`
}

type GameEventData struct {
	Game Game `json:"game"`
}

type BoardEventData struct {
	Board    [][]int `json:"board"`
	NewTiles []int   `json:"new_tiles"`
}

type PlayersEventData struct {
	Players []Player `json:"players"`
}

type RackEventData struct {
	Rack []int `json:"rack"`
}

type PileCountEventData struct {
	PileCount int `json:"pile_count"`
}

type TileDrawnEventData struct {
	Tile int `json:"tile"`
}

type PlayerEventData struct {
	Player Player `json:"player"`
}

type WinnerEventData struct {
	Winner Player `json:"winner"`
}

type EmptyEventData struct{}

// ToEventData renders an event's domain payload as its wire data object
// (§4.7, §4.9). Presentation ordering is applied here, the same as for
// HTTP responses.
func ToEventData(e event.Event) any {
	switch p := e.Data().(type) {
	case event.UserPayload:
		return UserEventData{User: ToUser(p.User)}
	case event.GameroomPayload:
		return GameroomEventData{Gameroom: ToGameroom(p.Gameroom)}
	case event.GamePayload:
		return GameEventData{Game: ToGame(p.Game, p.ViewerUserID)}
	case event.BoardPayload:
		return BoardEventData{Board: Board(p.Board), NewTiles: p.NewTiles}
	case event.PlayersPayload:
		return PlayersEventData{Players: playersInOrder(p)}
	case event.RackPayload:
		return RackEventData{Rack: Rack(p.Rack)}
	case event.PileCountPayload:
		return PileCountEventData{PileCount: p.Count}
	case event.TileDrawnPayload:
		return TileDrawnEventData{Tile: p.Tile}
	case event.PlayerPayload:
		return PlayerEventData{Player: playerDTO(p.Player, false)}
	case event.WinnerPayload:
		return WinnerEventData{Winner: playerDTO(p.Winner, false)}
	default:
		return EmptyEventData{}
	}
}

func playerDTO(p model.Player, hasTurn bool) Player {
	return Player{
		UserID:     p.UserID,
		Name:       p.Name,
		TilesCount: p.Rack.Len(),
		HasTurn:    hasTurn,
	}
}

func playersInOrder(p event.PlayersPayload) []Player {
	out := make([]Player, 0, len(p.TurnOrder))
	for _, userID := range p.TurnOrder {
		for _, player := range p.Players {
			if player.UserID == userID {
				out = append(out, playerDTO(player, false))
				break
			}
		}
	}
	return out
}
