// Package model holds the domain entities from §3: User, UserToken,
// Gameroom, Player, Move, Turn, GameState, and Game. Entities are plain
// value-ish structs; the engine and lobby packages own all mutation
// logic, so methods here are limited to read-only helpers.
package model

import "github.com/google/uuid"

// User is an account. CurrentGameroomID is the authoritative pointer to
// the gameroom a user belongs to, maintained exclusively by the lobby
// engine and consulted on disconnect (§3).
type User struct {
	ID                uuid.UUID
	Name              string
	CurrentGameroomID *uuid.UUID
}

// InGameroom reports whether the user currently belongs to a gameroom.
func (u User) InGameroom() bool {
	return u.CurrentGameroomID != nil
}

// UserToken is the opaque bearer credential issued at user creation and
// never reissued in the core flow (§3).
type UserToken struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Token  string
}
