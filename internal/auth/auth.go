// Package auth implements §4.6: bearer-token user lookup plus
// constant-time shared-secret comparison for the two internal channels.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/model"
)

// tokenPattern is the character class a bearer token must satisfy before
// even attempting a lookup (§4.6).
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9._=-]+$`)

// UserStore is the minimal lookup surface auth needs from the store.
type UserStore interface {
	UserByToken(token string) (model.User, bool)
}

// Service authorizes user bearer tokens and the two shared secrets.
type Service struct {
	users              UserStore
	messagesSecretHash string // hex sha256 of the configured messages_secret
	eventsSecretHash   string // hex sha256 of the configured events_secret
}

// NewService builds a Service. messagesSecretHash/eventsSecretHash are
// the already-hashed hex digests produced by config.Load at startup
// (§6: "hashed with SHA-256 at load time and thereafter compared as
// hex") — callers on the wire are expected to present that same digest
// as their credential, so no further hashing happens at comparison time.
func NewService(users UserStore, messagesSecretHash, eventsSecretHash string) *Service {
	return &Service{
		users:              users,
		messagesSecretHash: messagesSecretHash,
		eventsSecretHash:   eventsSecretHash,
	}
}

// HashSecret returns the hex SHA-256 digest of secret, the form stored
// in config and compared at the boundary (§6).
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// AuthorizeUser validates a bearer token and returns the owning user.
func (s *Service) AuthorizeUser(token string) (model.User, error) {
	if token == "" || !tokenPattern.MatchString(token) {
		return model.User{}, apperr.Unauthorized()
	}
	user, ok := s.users.UserByToken(token)
	if !ok {
		return model.User{}, apperr.Unauthorized()
	}
	return user, nil
}

// AuthorizeMessage validates the digest carried on an API->events bus
// frame (§4.9).
func (s *Service) AuthorizeMessage(digest string) error {
	return compareDigest(digest, s.messagesSecretHash)
}

// AuthorizeEventsServer validates the bearer digest on the events->API
// disconnect callback (§4.10).
func (s *Service) AuthorizeEventsServer(digest string) error {
	return compareDigest(digest, s.eventsSecretHash)
}

func compareDigest(provided, expected string) error {
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return apperr.Unauthorized()
	}
	return nil
}

// GenerateToken returns a fresh 64-hex-char opaque bearer credential
// (§3: UserToken.token is a 64-hex string).
func GenerateToken() string {
	a, b := uuid.New(), uuid.New()
	return hex.EncodeToString(append(a[:], b[:]...))
}
