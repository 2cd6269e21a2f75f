package eventsproc

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
)

// TokenRegistry resolves a client connect-frame token into a user id. The
// events process never talks to the relational store directly (§4.5
// names it an external collaborator behind the API process); instead the
// API mirrors each freshly issued token over the bus as a control frame
// (NameUserRegistered), and TokenRegistry is this process's read side of
// that mirror.
type TokenRegistry struct {
	mu     sync.RWMutex
	tokens map[string]uuid.UUID
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{tokens: make(map[string]uuid.UUID)}
}

// Register records token as belonging to userID.
func (t *TokenRegistry) Register(token string, userID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[token] = userID
}

// AuthorizeUser implements Authorizer.
func (t *TokenRegistry) AuthorizeUser(token string) (uuid.UUID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	userID, ok := t.tokens[token]
	if !ok {
		return uuid.Nil, apperr.Unauthorized()
	}
	return userID, nil
}
