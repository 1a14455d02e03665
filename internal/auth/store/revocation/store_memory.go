// Package revocation stores tokens invalidated before their natural expiry.
package revocation

import (
	"context"
	"sync"
)

// Store is the token revocation list. Revoke is idempotent; entries live until
// an explicit Reset unless the backing store supports TTL-based retention.
type Store interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Reset(ctx context.Context) error
}

// MemoryStore is the in-process revocation set. Entries survive for the life
// of the process; there is no time-based eviction.
type MemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewMemoryStore creates an empty revocation set.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]struct{}),
	}
}

// Revoke adds the token to the set. Re-revoking is a no-op that still
// reports success.
func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	if token == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = struct{}{}
	return nil
}

// IsRevoked is a pure lookup.
func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[token]
	return ok, nil
}

// Reset clears the set (administrative use).
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = make(map[string]struct{})
	return nil
}
