// Package event is the tagged-variant Event type of §9 and §4.7: each
// constructor carries exactly the fields serialized in its data, and
// recipients are computed once, at construction time, from the
// sender/gameroom/game context rather than looked up again downstream.
package event

import "github.com/google/uuid"

// Name constants, one per row of the §4.7 table.
const (
	NameUserJoined        = "user_joined"
	NameUserLeft          = "user_left"
	NameGameroomDeleted   = "gameroom_deleted"
	NameGameStarted       = "game_started"
	NameBoardChanged      = "board_changed"
	NamePlayersChanged    = "players_changed"
	NameRackChanged       = "rack_changed"
	NamePileCountChanged  = "pile_count_changed"
	NameTileDrawn         = "tile_drawn"
	NameTurnEnded         = "turn_ended"
	NameTurnStarted       = "turn_started"
	NamePlayerLeft        = "player_left"
	NamePlayerWon         = "player_won"
)

// Event is one notification destined for a fixed set of recipients.
type Event struct {
	EventName    string
	EventData    any
	RecipientIDs []uuid.UUID
}

func (e Event) Name() string          { return e.EventName }
func (e Event) Data() any             { return e.EventData }
func (e Event) Recipients() []uuid.UUID { return e.RecipientIDs }

func new_(name string, data any, recipients []uuid.UUID) Event {
	return Event{EventName: name, EventData: data, RecipientIDs: recipients}
}

// exceptUser filters sender out of ids.
func exceptUser(ids []uuid.UUID, sender uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != sender {
			out = append(out, id)
		}
	}
	return out
}
