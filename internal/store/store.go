// Package store is the persistence adapter of §4.5: a process-wide Store
// with row-level locks on gameroom/game aggregates, acquired by
// WithGameroomLock/WithGameLock inside a mutation path, so that two
// concurrent mutations on the same aggregate serialize. There is no
// per-request session type; callers use the Store's methods directly. The store is in-memory — the relational
// store itself is named in spec.md's Non-goals as an external
// collaborator specified only by interface — but the locking and
// commit/rollback semantics it must provide are implemented faithfully.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/model"
)

type gameroomRow struct {
	mu   sync.Mutex
	data model.Gameroom
}

type userRow struct {
	user  model.User
	token model.UserToken
}

// Store is the process-wide record set. Gameroom mutations go through
// WithGameroomLock/WithGameLock, which hold the row lock and commit or
// roll back; user and table access is guarded by tableMu alone.
type Store struct {
	tableMu sync.RWMutex // guards insertion/removal of rows in the maps below
	users   map[uuid.UUID]*userRow
	tokens  map[string]uuid.UUID // token -> user id
	rooms   map[uuid.UUID]*gameroomRow
	gameIndex map[uuid.UUID]uuid.UUID // game id -> owning gameroom id
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:  make(map[uuid.UUID]*userRow),
		tokens: make(map[string]uuid.UUID),
		rooms:  make(map[uuid.UUID]*gameroomRow),
	}
}

// CreateUser inserts a new user/token pair. Users are never deleted and
// tokens are never reissued in the core flow (§3), so this needs no row
// lock of its own beyond the table-level guard.
func (s *Store) CreateUser(name string, token model.UserToken, user model.User) {
	s.tableMu.Lock()
	defer s.tableMu.Unlock()
	s.users[user.ID] = &userRow{user: user, token: token}
	s.tokens[token.Token] = user.ID
}

// UserByToken looks up a user by exact bearer token value (§4.6).
func (s *Store) UserByToken(token string) (model.User, bool) {
	s.tableMu.RLock()
	defer s.tableMu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return model.User{}, false
	}
	row := s.users[id]
	return row.user, true
}

// UserByID returns the current snapshot of a user.
func (s *Store) UserByID(id uuid.UUID) (model.User, bool) {
	s.tableMu.RLock()
	defer s.tableMu.RUnlock()
	row, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	return row.user, true
}

// SaveUser writes back a user snapshot — used when the lobby engine
// updates CurrentGameroomID.
func (s *Store) SaveUser(user model.User) {
	s.tableMu.Lock()
	defer s.tableMu.Unlock()
	if row, ok := s.users[user.ID]; ok {
		row.user = user
	}
}

// InsertGameroom adds a freshly created gameroom to the store.
func (s *Store) InsertGameroom(gameroom model.Gameroom) {
	s.tableMu.Lock()
	defer s.tableMu.Unlock()
	s.rooms[gameroom.ID] = &gameroomRow{data: gameroom}
}

// GameroomByID returns an unlocked read-only snapshot, for read-only
// handlers that don't need a row lock (§4.5). Gamerooms with status
// DELETED are invisible to reads.
func (s *Store) GameroomByID(id uuid.UUID) (model.Gameroom, bool) {
	s.tableMu.RLock()
	row, ok := s.rooms[id]
	s.tableMu.RUnlock()
	if !ok {
		return model.Gameroom{}, false
	}
	row.mu.Lock()
	snapshot := row.data
	row.mu.Unlock()
	if snapshot.Status == model.GameroomDeleted {
		return model.Gameroom{}, false
	}
	return snapshot, true
}

// ListGamerooms returns every non-deleted gameroom.
func (s *Store) ListGamerooms() []model.Gameroom {
	s.tableMu.RLock()
	rows := make([]*gameroomRow, 0, len(s.rooms))
	for _, row := range s.rooms {
		rows = append(rows, row)
	}
	s.tableMu.RUnlock()

	out := make([]model.Gameroom, 0, len(rows))
	for _, row := range rows {
		row.mu.Lock()
		snapshot := row.data
		row.mu.Unlock()
		if snapshot.Status != model.GameroomDeleted {
			out = append(out, snapshot)
		}
	}
	return out
}

// deleteGameroom removes a gameroom row entirely — used by the finish-game
// path, which deletes Game and Gameroom atomically (§4.4).
func (s *Store) deleteGameroom(id uuid.UUID) {
	s.tableMu.Lock()
	defer s.tableMu.Unlock()
	delete(s.rooms, id)
}

// WithGameroomLock acquires the row lock for gameroomID, passes the
// current snapshot to fn, and — if fn succeeds — commits fn's returned
// gameroom back to the store before releasing the lock; on error, the
// row is left unmodified ("rolled back", since nothing was written).
// This is the row-level lock §4.5 describes: two concurrent mutations on
// the same gameroom serialize on row.mu.
func (s *Store) WithGameroomLock(gameroomID uuid.UUID, fn func(model.Gameroom) (model.Gameroom, error)) (model.Gameroom, error) {
	s.tableMu.RLock()
	row, ok := s.rooms[gameroomID]
	s.tableMu.RUnlock()
	if !ok {
		return model.Gameroom{}, apperr.NotFound("gameroom", gameroomID.String())
	}

	row.mu.Lock()
	defer row.mu.Unlock()

	if row.data.Status == model.GameroomDeleted {
		return model.Gameroom{}, apperr.NotFound("gameroom", gameroomID.String())
	}

	next, err := fn(row.data)
	if err != nil {
		return model.Gameroom{}, err
	}
	row.data = next

	if next.Status == model.GameroomFinished || next.Status == model.GameroomDeleted {
		// Deferred calls run LIFO, so this runs before the row.mu.Unlock
		// deferred above it — the row is dropped from the table while
		// still held, then unlocked as an orphaned, now-unreachable value.
		defer s.deleteGameroom(gameroomID)
	}
	if next.Game != nil {
		s.indexGame(next.Game.ID, gameroomID)
	}

	return next, nil
}

// indexGame records which gameroom owns gameID, so game-scoped endpoints
// (POST /games/{id}/moves and friends) can find the right row lock.
func (s *Store) indexGame(gameID, gameroomID uuid.UUID) {
	s.tableMu.Lock()
	defer s.tableMu.Unlock()
	if s.gameIndex == nil {
		s.gameIndex = make(map[uuid.UUID]uuid.UUID)
	}
	s.gameIndex[gameID] = gameroomID
}

// GameroomIDForGame resolves a game id to its owning gameroom id.
func (s *Store) GameroomIDForGame(gameID uuid.UUID) (uuid.UUID, bool) {
	s.tableMu.RLock()
	defer s.tableMu.RUnlock()
	id, ok := s.gameIndex[gameID]
	return id, ok
}

// WithGameLock locks the owning gameroom row and passes its attached
// Game to fn, re-attaching whatever Game fn returns. Games are owned 1:1
// by their gameroom (§3), so the gameroom row lock is the game's row
// lock too.
func (s *Store) WithGameLock(gameID uuid.UUID, fn func(model.Game) (model.Game, error)) (model.Game, model.Gameroom, error) {
	gameroomID, ok := s.GameroomIDForGame(gameID)
	if !ok {
		return model.Game{}, model.Gameroom{}, apperr.NotFound("game", gameID.String())
	}

	gameroom, err := s.WithGameroomLock(gameroomID, func(gr model.Gameroom) (model.Gameroom, error) {
		if gr.Game == nil || gr.Game.ID != gameID {
			return gr, apperr.NotFound("game", gameID.String())
		}
		updated, ferr := fn(*gr.Game)
		if ferr != nil {
			return gr, ferr
		}
		gr.Game = &updated
		return gr, nil
	})
	if err != nil {
		return model.Game{}, model.Gameroom{}, err
	}
	return *gameroom.Game, gameroom, nil
}
