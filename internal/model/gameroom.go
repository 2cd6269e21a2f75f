package model

import (
	"time"

	"github.com/google/uuid"
)

// GameroomStatus is one of the four lifecycle states in §3. Transitions
// are STARTING -> RUNNING -> FINISHED or STARTING -> DELETED; there are
// no transitions out of FINISHED or DELETED.
type GameroomStatus string

const (
	GameroomStarting GameroomStatus = "STARTING"
	GameroomRunning  GameroomStatus = "RUNNING"
	GameroomFinished GameroomStatus = "FINISHED"
	GameroomDeleted  GameroomStatus = "DELETED"
)

// Gameroom is the owner-managed lobby container (§3). Users is kept in
// insertion order; OwnerID must always equal the id of a member of Users
// while the gameroom is not DELETED.
type Gameroom struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	Status    GameroomStatus
	CreatedAt time.Time
	Users     []User
	Game      *Game
}

// HasUser reports whether userID is a current member.
func (g Gameroom) HasUser(userID uuid.UUID) bool {
	for _, u := range g.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// IsOwner reports whether userID is the gameroom's owner.
func (g Gameroom) IsOwner(userID uuid.UUID) bool {
	return g.OwnerID == userID
}

// UsersExcept returns the members other than exceptUserID, preserving
// insertion order — the shape every *_except-sender event recipient list
// needs (§4.7).
func (g Gameroom) UsersExcept(exceptUserID uuid.UUID) []User {
	out := make([]User, 0, len(g.Users))
	for _, u := range g.Users {
		if u.ID != exceptUserID {
			out = append(out, u)
		}
	}
	return out
}
