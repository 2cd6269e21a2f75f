// Package lobby implements the gameroom lifecycle of §4.4. Like the
// engine package, every operation is a pure transform of a
// model.Gameroom; persistence and event emission belong to the caller.
package lobby

import (
	"time"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/engine"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"github.com/tom-bartk/tuicub-server/internal/rng"
)

const maxUsers = 4

// Create starts a new gameroom owned by owner. Name follows the fixed
// "<user>'s gameroom." convention (§4.4).
func Create(owner model.User) model.Gameroom {
	return model.Gameroom{
		ID:        uuid.New(),
		Name:      owner.Name + "'s gameroom.",
		OwnerID:   owner.ID,
		Status:    model.GameroomStarting,
		CreatedAt: time.Now(),
		Users:     []model.User{owner},
		Game:      nil,
	}
}

// Join appends user to the gameroom's member list (§4.4).
func Join(gameroom model.Gameroom, user model.User) (model.Gameroom, error) {
	if gameroom.Status != model.GameroomStarting {
		return gameroom, apperr.GameAlreadyStarted()
	}
	if len(gameroom.Users) >= maxUsers {
		return gameroom, apperr.GameroomFull()
	}

	next := gameroom
	next.Users = append(append([]model.User(nil), gameroom.Users...), user)
	return next, nil
}

// Leave removes userID from the gameroom's member list. The owner must
// delete the gameroom rather than leave it (§4.4).
func Leave(gameroom model.Gameroom, userID uuid.UUID) (model.Gameroom, error) {
	if gameroom.Status != model.GameroomStarting {
		return gameroom, apperr.GameAlreadyStarted()
	}
	if !gameroom.HasUser(userID) {
		return gameroom, apperr.UserNotInGame()
	}
	if gameroom.IsOwner(userID) {
		return gameroom, apperr.LeavingOwnGameroom()
	}

	next := gameroom
	next.Users = gameroom.UsersExcept(userID)
	return next, nil
}

// Delete marks the gameroom DELETED and clears its members, returning
// the gameroom alongside the remaining (non-owner) users the caller
// needs for gameroom_deleted event fan-out (§4.4, §4.7).
func Delete(gameroom model.Gameroom, userID uuid.UUID) (model.Gameroom, []model.User, error) {
	if gameroom.Status != model.GameroomStarting {
		return gameroom, nil, apperr.GameAlreadyStarted()
	}
	if !gameroom.IsOwner(userID) {
		return gameroom, nil, apperr.NotGameroomOwner()
	}

	remaining := gameroom.UsersExcept(userID)
	next := gameroom
	next.Status = model.GameroomDeleted
	next.Users = nil
	return next, remaining, nil
}

// StartGame deals a new Game via the engine and transitions the
// gameroom to RUNNING (§4.4).
func StartGame(gameroom model.Gameroom, userID uuid.UUID, src rng.Source) (model.Gameroom, error) {
	if gameroom.Status != model.GameroomStarting {
		return gameroom, apperr.GameAlreadyStarted()
	}
	if !gameroom.IsOwner(userID) {
		return gameroom, apperr.NotGameroomOwner()
	}
	if len(gameroom.Users) < engine.MinPlayers() {
		return gameroom, apperr.NotEnoughPlayers()
	}

	game := engine.StartGame(gameroom.ID, gameroom.Users, src)
	next := gameroom
	next.Status = model.GameroomRunning
	next.Game = &game
	return next, nil
}

// CanFinish reports whether the gameroom's game has a winner and is
// therefore eligible for FinishGame (§4.4: called only after winner !=
// nil).
func CanFinish(gameroom model.Gameroom) error {
	if gameroom.Game == nil || gameroom.Game.Winner == nil {
		return apperr.Business("game_not_finished", "The game has not finished yet.")
	}
	return nil
}

// FinishGame transitions gameroom to FINISHED once its game has a
// winner (§4.4, §8 scenario 6). Both the endTurn path and the
// disconnect-from-game path reach a winner through different engine
// operations, so they share this one state transition instead of each
// duplicating the CanFinish check and status assignment inline.
func FinishGame(gameroom model.Gameroom) (model.Gameroom, error) {
	if err := CanFinish(gameroom); err != nil {
		return gameroom, err
	}
	next := gameroom
	next.Status = model.GameroomFinished
	return next, nil
}

// Disconnect applies the lobby-only disconnect path (§4.4): the caller
// must already have established that the gameroom has no attached
// RUNNING game, since in that case the game engine's disconnect result
// owns the mutation instead. remaining is the list the caller should use
// for user_left/gameroom_deleted event fan-out.
func Disconnect(gameroom model.Gameroom, userID uuid.UUID) (result model.Gameroom, remaining []model.User, deleted bool, err error) {
	if gameroom.IsOwner(userID) {
		next, rem, derr := Delete(gameroom, userID)
		if derr != nil {
			return gameroom, nil, false, derr
		}
		return next, rem, true, nil
	}
	next, lerr := Leave(gameroom, userID)
	if lerr != nil {
		return gameroom, nil, false, lerr
	}
	return next, next.UsersExcept(userID), false, nil
}
