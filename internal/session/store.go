// Package session holds the single bearer token of a logged-in operator.
//
// A Store is constructed once at startup and shared by the API client and the
// controllers. Presence of a token is the only authorization signal; nothing
// here inspects expiry or permissions.
package session

import (
	"context"
	"sync"
)

// Store persists at most one session token.
type Store interface {
	// Token returns the stored token, or "" when there is none.
	Token(ctx context.Context) (string, error)
	// Save replaces any stored token.
	Save(ctx context.Context, token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Authenticated reports whether s currently holds a token. Read errors count
// as not authenticated.
func Authenticated(ctx context.Context, s Store) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
