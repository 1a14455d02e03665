// Package ratelimit throttles clients with fixed-window counters keyed by
// connection address, independent of authentication.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"roomalchemy/internal/ratelimit/models"
	"roomalchemy/internal/ratelimit/store/window"
	derrors "roomalchemy/pkg/domain-errors"
)

// Service checks per-client request budgets.
type Service struct {
	counters *window.MemoryStore
	limit    int
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the rate limiter (default 5 requests per minute).
func New(counters *window.MemoryStore, limit int, windowLength time.Duration, opts ...Option) (*Service, error) {
	if counters == nil {
		return nil, derrors.New(derrors.CodeInternal, "counter store is required")
	}
	if limit <= 0 {
		limit = 5
	}
	if windowLength <= 0 {
		windowLength = time.Minute
	}
	svc := &Service{
		counters: counters,
		limit:    limit,
		window:   windowLength,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Check runs one rate-limit decision for the client key.
func (s *Service) Check(ctx context.Context, key string) models.Result {
	result := s.counters.Allow(key, s.limit, s.window, s.now())
	if !result.Allowed {
		s.logger.WarnContext(ctx, "rate limit exceeded",
			"key", key,
			"limit", s.limit,
			"retry_after", result.RetryAfter,
		)
	}
	return result
}

// Reset clears all counters (administrative/test use).
func (s *Service) Reset() {
	s.counters.Reset()
}
