// Package quota enforces the per-identity daily usage ceiling for guest-tier
// callers. It is distinct from the per-connection rate limit: different key
// space, much longer window.
package quota

import (
	"context"
	"log/slog"
	"time"

	"roomalchemy/internal/platform/config"
	"roomalchemy/internal/quota/models"
	"roomalchemy/internal/quota/store"
	derrors "roomalchemy/pkg/domain-errors"
)

// Service applies quota policy over the ledger: which key a caller maps to
// and how many units a window allows.
type Service struct {
	ledger    *store.Memory
	limit     int
	keyPolicy config.QuotaKeyPolicy
	logger    *slog.Logger
	now       func() time.Time
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

// New creates the quota service.
func New(ledger *store.Memory, limit int, keyPolicy config.QuotaKeyPolicy, opts ...Option) (*Service, error) {
	if ledger == nil {
		return nil, derrors.New(derrors.CodeInternal, "quota ledger is required")
	}
	svc := &Service{
		ledger:    ledger,
		limit:     limit,
		keyPolicy: keyPolicy,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Key resolves the ledger key for a caller. Identity keying is preferred when
// configured and an identity exists; anonymous callers always key by address.
// Address keying can be sidestepped by IP-hopping; that is an accepted
// deployment tradeoff, not something this layer papers over.
func (s *Service) Key(userID, clientIP string) string {
	if s.keyPolicy == config.QuotaKeyIdentity && userID != "" {
		return "guest:" + userID
	}
	return "guest:" + clientIP
}

// Consume takes one unit of quota for the caller, resetting the window first
// when it has elapsed.
func (s *Service) Consume(ctx context.Context, userID, clientIP string) models.Decision {
	key := s.Key(userID, clientIP)
	decision := s.ledger.Consume(key, s.limit, s.now())
	if !decision.Allowed {
		s.logger.WarnContext(ctx, "guest quota exceeded",
			"key", key,
			"limit", s.limit,
			"reset_at", decision.ResetAt,
		)
	}
	return decision
}

// Status reads the caller's quota entry without mutating it.
func (s *Service) Status(userID, clientIP string) models.Status {
	return s.ledger.Status(s.Key(userID, clientIP), s.now())
}

// Limit returns the configured per-window ceiling.
func (s *Service) Limit() int { return s.limit }

// Reset clears the ledger (administrative/test use).
func (s *Service) Reset() {
	s.ledger.Reset()
}
