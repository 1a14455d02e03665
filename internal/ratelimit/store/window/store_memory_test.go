package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 5
	testWindow = time.Minute
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	now   time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.now = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) TestAllow() {
	s.Run("first request allowed", func() {
		result := s.store.Allow("203.0.113.1", testLimit, testWindow, s.now)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
		s.Equal(s.now.Add(testWindow), result.ResetAt)
	})

	s.Run("requests up to limit allowed", func() {
		var last bool
		for range testLimit {
			last = s.store.Allow("203.0.113.2", testLimit, testWindow, s.now).Allowed
		}
		s.True(last)
		s.Equal(0, s.store.Allow("203.0.113.2", testLimit, testWindow, s.now).Remaining)
	})

	s.Run("request over limit denied with positive retry hint", func() {
		for range testLimit {
			s.store.Allow("203.0.113.3", testLimit, testWindow, s.now)
		}

		result := s.store.Allow("203.0.113.3", testLimit, testWindow, s.now.Add(30*time.Second))
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Equal(30, result.RetryAfter)

		// The counter is frozen at the limit while denials accumulate.
		s.Equal(testLimit, s.store.Count("203.0.113.3", s.now))
	})

	s.Run("retry hint never rounds down to zero", func() {
		for range testLimit {
			s.store.Allow("203.0.113.4", testLimit, testWindow, s.now)
		}
		result := s.store.Allow("203.0.113.4", testLimit, testWindow, s.now.Add(testWindow-time.Millisecond))
		s.False(result.Allowed)
		s.Equal(1, result.RetryAfter)
	})

	s.Run("window elapse starts a fresh counter", func() {
		for range testLimit {
			s.store.Allow("203.0.113.5", testLimit, testWindow, s.now)
		}

		later := s.now.Add(testWindow)
		result := s.store.Allow("203.0.113.5", testLimit, testWindow, later)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
		s.Equal(later.Add(testWindow), result.ResetAt)
	})

	s.Run("keys are independent", func() {
		for range testLimit {
			s.store.Allow("203.0.113.6", testLimit, testWindow, s.now)
		}
		s.True(s.store.Allow("203.0.113.7", testLimit, testWindow, s.now).Allowed)
	})
}

func (s *MemoryStoreSuite) TestReset() {
	for range testLimit {
		s.store.Allow("203.0.113.8", testLimit, testWindow, s.now)
	}

	s.store.Reset()

	s.Equal(0, s.store.Count("203.0.113.8", s.now))
	s.True(s.store.Allow("203.0.113.8", testLimit, testWindow, s.now).Allowed)
}
