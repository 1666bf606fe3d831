package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore maps opaque bearer tokens to user ids for the lifetime of the
// process. Construct one at startup and pass it where needed; there is no
// package-level instance. Tokens are uuid v4, 122 bits of randomness.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]uint
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]uint),
	}
}

// Issue records a fresh token for the user. A user may hold any number of
// tokens, one per session.
func (s *TokenStore) Issue(userID uint) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

func (s *TokenStore) Resolve(token string) (uint, error) {
	s.mu.RLock()
	userID, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrTokenNotFound
	}
	return userID, nil
}

// Revoke drops the mapping. Revoking an unknown token is a no-op.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
