// Package window implements fixed-window request counters.
package window

import (
	"math"
	"sync"
	"time"

	"roomalchemy/internal/ratelimit/models"
)

type counter struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps fixed-window counters per key. Same reset shape as the
// quota ledger, but independently configured and keyed by client address.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
}

// NewMemoryStore creates an empty counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*counter),
	}
}

// Allow checks and increments the counter for key. Past the limit the count
// is not mutated; the result carries the remaining window as RetryAfter.
func (s *MemoryStore) Allow(key string, limit int, window time.Duration, now time.Time) models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &counter{count: 0, resetAt: now.Add(window)}
		s.counters[key] = c
	}

	if c.count >= limit {
		return models.Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    c.resetAt,
			RetryAfter: retryAfterSeconds(c.resetAt, now),
		}
	}

	c.count++
	return models.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - c.count,
		ResetAt:   c.resetAt,
	}
}

// Count returns the current count for a key without mutating it.
func (s *MemoryStore) Count(key string, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		return 0
	}
	return c.count
}

// Reset clears all counters (administrative/test use).
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]*counter)
}

// retryAfterSeconds rounds the remaining window up so clients never retry
// early.
func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
