// Package store holds the rolling-window quota ledger state.
package store

import (
	"sync"
	"time"

	"roomalchemy/internal/quota/models"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Memory is the in-process quota ledger. Entries are created lazily on first
// consumption and mutated only through Consume, which is atomic under the
// store mutex.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
}

// NewMemory creates a ledger with the given window length (default 24h).
func NewMemory(window time.Duration) *Memory {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Memory{
		entries: make(map[string]*entry),
		window:  window,
	}
}

// Consume attempts to take one unit of quota for key against limit. If the
// entry is absent or its window has elapsed, a fresh entry replaces it before
// the limit test. A denied attempt never mutates the count.
func (m *Memory) Consume(key string, limit int, now time.Time) models.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 0, resetAt: now.Add(m.window)}
		m.entries[key] = e
	}

	if e.count >= limit {
		return models.Decision{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   e.resetAt,
		}
	}

	e.count++
	remaining := limit - e.count
	if remaining < 0 {
		remaining = 0
	}
	return models.Decision{
		Allowed:   true,
		Remaining: remaining,
		ResetAt:   e.resetAt,
	}
}

// Status reads an entry without triggering a window reset; Consume is the
// only mutator.
func (m *Memory) Status(key string, now time.Time) models.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return models.Status{Count: 0, ResetAt: now.Add(m.window)}
	}
	return models.Status{Count: e.count, ResetAt: e.resetAt}
}

// Reset clears all entries (administrative/test use).
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*entry)
}
