package redesign

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	authmodels "roomalchemy/internal/auth/models"
	"roomalchemy/internal/events"
	"roomalchemy/internal/platform/config"
	"roomalchemy/internal/policy"
	"roomalchemy/internal/quota"
	quotastore "roomalchemy/internal/quota/store"
	"roomalchemy/internal/upload"
	derrors "roomalchemy/pkg/domain-errors"
)

type fakeSanitizer struct {
	calls int
	err   error
}

func (f *fakeSanitizer) Strip(_ context.Context, data []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return data, nil
}

type fakeScanner struct {
	calls int
	err   error
}

func (f *fakeScanner) Scan(_ context.Context, _ []byte) error {
	f.calls++
	return f.err
}

type fakeTransformer struct {
	calls  int
	output []byte
	err    error
}

func (f *fakeTransformer) Transform(_ context.Context, _ []byte, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

type captureRecorder struct {
	recorded []events.Event
}

func (c *captureRecorder) Record(_ context.Context, ev events.Event) {
	c.recorded = append(c.recorded, ev)
}

type OrchestratorSuite struct {
	suite.Suite
	ctx         context.Context
	quotas      *quota.Service
	sanitizer   *fakeSanitizer
	scanner     *fakeScanner
	transformer *fakeTransformer
	recorder    *captureRecorder
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorSuite))
}

func (s *OrchestratorSuite) SetupTest() {
	s.ctx = context.Background()

	quotas, err := quota.New(quotastore.NewMemory(24*time.Hour), 3, config.QuotaKeyIdentity)
	s.Require().NoError(err)

	s.quotas = quotas
	s.sanitizer = &fakeSanitizer{}
	s.scanner = &fakeScanner{}
	s.transformer = &fakeTransformer{output: []byte("rendered-png")}
	s.recorder = &captureRecorder{}
}

func (s *OrchestratorSuite) newService(opts ...Option) *Service {
	svc, err := New(s.quotas, s.sanitizer, s.scanner, s.transformer, s.recorder, opts...)
	s.Require().NoError(err)
	return svc
}

func identity(role policy.Role) *authmodels.Identity {
	return &authmodels.Identity{
		UserID: string(role) + "-demo",
		Email:  string(role) + "@roomalchemy.io",
		Role:   role,
		Token:  "token",
	}
}

func request(role policy.Role) *Request {
	req := &Request{
		Style: "japandi",
		Image: &upload.Upload{
			Filename:    "room.png",
			ContentType: "image/png",
			Size:        4,
			Data:        []byte{1, 2, 3, 4},
		},
		ClientIP:  "203.0.113.10",
		UserAgent: "curl",
		RequestID: "req-1",
	}
	if role != "" {
		req.Identity = identity(role)
	}
	return req
}

func (s *OrchestratorSuite) lastEvent() events.Event {
	s.Require().Len(s.recorder.recorded, 1)
	return s.recorder.recorded[0]
}

func (s *OrchestratorSuite) TestRedesignSuccess() {
	svc := s.newService()
	req := request(policy.RoleUser)

	result, err := svc.Redesign(s.ctx, req)
	s.Require().NoError(err)
	s.Equal([]byte("rendered-png"), result.Image)
	s.Equal("image/png", result.ContentType)
	s.Contains(result.Filename, "roomalchemy-japandi-")

	s.Equal(1, s.sanitizer.calls)
	s.Equal(1, s.scanner.calls)
	s.Equal(1, s.transformer.calls)

	// Buffer released after the traversal.
	s.Nil(req.Image.Data)

	ev := s.lastEvent()
	s.Equal(events.KindTransform, ev.Kind)
	s.True(ev.Success)
	s.Equal(200, ev.Status)
	s.Equal("japandi", ev.Style)
	s.Equal(int64(4), ev.InputSize)
	s.Equal(int64(len("rendered-png")), ev.OutputSize)
	s.Equal("user-demo", ev.UserID)
}

func (s *OrchestratorSuite) TestRedesignInvalidStyle() {
	svc := s.newService()
	req := request(policy.RoleUser)
	req.Style = "brutalist"

	_, err := svc.Redesign(s.ctx, req)
	s.Require().Error(err)
	s.True(derrors.Is(err, derrors.CodeInvalidStyle))

	s.Equal(0, s.sanitizer.calls)
	s.Nil(req.Image.Data)

	ev := s.lastEvent()
	s.False(ev.Success)
	s.Equal(400, ev.Status)
	s.Equal("invalid_style", ev.ErrorKind)
}

func (s *OrchestratorSuite) TestRedesignMissingImage() {
	svc := s.newService()
	req := request(policy.RoleUser)
	req.Image = nil

	_, err := svc.Redesign(s.ctx, req)
	s.Require().Error(err)
	s.True(derrors.Is(err, derrors.CodeInvalidImage))
	s.Equal(0, s.sanitizer.calls)
}

func (s *OrchestratorSuite) TestGuestQuota() {
	svc := s.newService()

	s.Run("guest consumes one unit per traversal", func() {
		for range 3 {
			_, err := svc.Redesign(s.ctx, request(policy.RoleGuest))
			s.Require().NoError(err)
		}
	})

	s.Run("fourth traversal denied with reset time", func() {
		_, err := svc.Redesign(s.ctx, request(policy.RoleGuest))
		s.Require().Error(err)

		var quotaErr *QuotaExceededError
		s.Require().ErrorAs(err, &quotaErr)
		s.False(quotaErr.ResetAt.IsZero())
		s.True(derrors.Is(err, derrors.CodeQuotaExceeded))

		ev := s.recorder.recorded[len(s.recorder.recorded)-1]
		s.False(ev.Success)
		s.Equal(403, ev.Status)
		s.Equal("quota_exceeded", ev.ErrorKind)
	})

	s.Run("denied traversal never reaches the pipeline", func() {
		calls := s.transformer.calls
		_, err := svc.Redesign(s.ctx, request(policy.RoleGuest))
		s.Require().Error(err)
		s.Equal(calls, s.transformer.calls)
	})
}

func (s *OrchestratorSuite) TestQuotaBypassForUpperTiers() {
	svc := s.newService()

	for _, role := range []policy.Role{policy.RoleUser, policy.RoleAdmin} {
		for range 5 {
			_, err := svc.Redesign(s.ctx, request(role))
			s.Require().NoError(err)
		}
	}
}

func (s *OrchestratorSuite) TestAnonymousCallers() {
	s.Run("quota applies when auth is optional", func() {
		svc := s.newService(WithAuthOptional(true))

		for range 3 {
			_, err := svc.Redesign(s.ctx, request(""))
			s.Require().NoError(err)
		}

		_, err := svc.Redesign(s.ctx, request(""))
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeQuotaExceeded))

		ev := s.recorder.recorded[len(s.recorder.recorded)-1]
		s.Equal("guest", ev.Role)
		s.Empty(ev.UserID)
	})
}

func (s *OrchestratorSuite) TestPipelineFailures() {
	s.Run("transform failure maps to upstream error", func() {
		s.transformer.err = derrors.New(derrors.CodeUpstreamError, "Image service is unavailable. Please try again.")
		svc := s.newService()
		req := request(policy.RoleUser)

		_, err := svc.Redesign(s.ctx, req)
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeUpstreamError))
		s.Nil(req.Image.Data)

		ev := s.lastEvent()
		s.False(ev.Success)
		s.Equal(502, ev.Status)
		s.Equal("upstream_error", ev.ErrorKind)
	})

	s.Run("scan failure stops before transform", func() {
		s.SetupTest()
		s.scanner.err = derrors.New(derrors.CodeInvalidImage, "Image failed the safety scan.")
		svc := s.newService()

		_, err := svc.Redesign(s.ctx, request(policy.RoleUser))
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeInvalidImage))
		s.Equal(0, s.transformer.calls)
		s.Len(s.recorder.recorded, 1)
	})
}
