package event

import (
	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/model"
)

func userIDs(users []model.User) []uuid.UUID {
	out := make([]uuid.UUID, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

// UserJoined fires to every other gameroom member when joiner joins
// (§4.7: excludes the joiner).
func UserJoined(gameroom model.Gameroom, joiner model.User) Event {
	recipients := exceptUser(userIDs(gameroom.Users), joiner.ID)
	return new_(NameUserJoined, UserPayload{User: joiner}, recipients)
}

// UserLeft fires to every remaining gameroom member when leaver leaves
// (§4.7: excludes the leaver).
func UserLeft(gameroomAfterLeave model.Gameroom, leaver model.User) Event {
	recipients := userIDs(gameroomAfterLeave.Users)
	return new_(NameUserLeft, UserPayload{User: leaver}, recipients)
}

// GameroomDeleted fires to the users who were in the gameroom at delete
// time, other than the owner who deleted it (§4.7, §4.4).
func GameroomDeleted(gameroom model.Gameroom, remainingUsers []model.User) Event {
	return new_(NameGameroomDeleted, GameroomPayload{Gameroom: gameroom}, userIDs(remainingUsers))
}

// GameStarted returns one event per non-starter player, each carrying a
// per-player view of the game including that player's own rack (§4.7).
func GameStarted(game model.Game, starterUserID uuid.UUID) []Event {
	events := make([]Event, 0, len(game.GameState.Players))
	for _, p := range game.GameState.Players {
		if p.UserID == starterUserID {
			continue
		}
		events = append(events, new_(NameGameStarted, GamePayload{Game: game, ViewerUserID: p.UserID}, []uuid.UUID{p.UserID}))
	}
	return events
}
