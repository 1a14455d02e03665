package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"roomalchemy/internal/platform/config"
	"roomalchemy/internal/quota/store"
)

type ServiceSuite struct {
	suite.Suite
	ctx context.Context
	now time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) newService(policy config.QuotaKeyPolicy) *Service {
	svc, err := New(store.NewMemory(24*time.Hour), 3, policy, WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) TestNew() {
	_, err := New(nil, 3, config.QuotaKeyIdentity)
	s.Error(err)
}

func (s *ServiceSuite) TestKey() {
	s.Run("identity policy prefers user id", func() {
		svc := s.newService(config.QuotaKeyIdentity)
		s.Equal("guest:user-1", svc.Key("user-1", "203.0.113.7"))
	})

	s.Run("identity policy falls back to address for anonymous callers", func() {
		svc := s.newService(config.QuotaKeyIdentity)
		s.Equal("guest:203.0.113.7", svc.Key("", "203.0.113.7"))
	})

	s.Run("address policy ignores identity", func() {
		svc := s.newService(config.QuotaKeyAddress)
		s.Equal("guest:203.0.113.7", svc.Key("user-1", "203.0.113.7"))
	})
}

func (s *ServiceSuite) TestConsume() {
	svc := s.newService(config.QuotaKeyIdentity)

	s.Run("three units then denial", func() {
		for i := range 3 {
			decision := svc.Consume(s.ctx, "guest-a", "203.0.113.7")
			s.Require().True(decision.Allowed)
			s.Equal(2-i, decision.Remaining)
		}

		decision := svc.Consume(s.ctx, "guest-a", "203.0.113.7")
		s.False(decision.Allowed)
		s.Equal(s.now.Add(24*time.Hour), decision.ResetAt)
	})

	s.Run("window elapse restores the budget", func() {
		s.now = s.now.Add(24 * time.Hour)
		decision := svc.Consume(s.ctx, "guest-a", "203.0.113.7")
		s.True(decision.Allowed)
		s.Equal(2, decision.Remaining)
	})
}

func (s *ServiceSuite) TestStatus() {
	svc := s.newService(config.QuotaKeyIdentity)
	svc.Consume(s.ctx, "guest-b", "203.0.113.7")

	status := svc.Status("guest-b", "203.0.113.7")
	s.Equal(1, status.Count)
	s.Equal(3, svc.Limit())
}
