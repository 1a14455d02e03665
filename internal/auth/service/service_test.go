package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"roomalchemy/internal/auth/models"
	"roomalchemy/internal/auth/store/revocation"
	"roomalchemy/internal/auth/token"
	"roomalchemy/internal/policy"
	derrors "roomalchemy/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	tokens := token.NewService("test-signing-key", "roomalchemy", time.Hour)
	svc, err := New(tokens, revocation.NewMemoryStore())
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) login(email, password string) *models.LoginResult {
	result, err := s.service.Login(s.ctx, models.LoginRequest{Email: email, Password: password})
	s.Require().NoError(err)
	return result
}

func (s *ServiceSuite) TestNew() {
	s.Run("missing token service", func() {
		_, err := New(nil, revocation.NewMemoryStore())
		s.Error(err)
	})

	s.Run("missing revocation store", func() {
		_, err := New(token.NewService("k", "roomalchemy", time.Hour), nil)
		s.Error(err)
	})
}

func (s *ServiceSuite) TestLogin() {
	s.Run("valid credentials issue a token per tier", func() {
		for _, tc := range []struct {
			email string
			pass  string
			role  policy.Role
		}{
			{"guest@roomalchemy.io", "guestpass", policy.RoleGuest},
			{"user@roomalchemy.io", "userpass", policy.RoleUser},
			{"admin@roomalchemy.io", "adminpass", policy.RoleAdmin},
		} {
			result := s.login(tc.email, tc.pass)
			s.NotEmpty(result.Token)
			s.Equal(tc.role, result.User.Role)
			s.Equal(tc.email, result.User.Email)
		}
	})

	s.Run("email is case and whitespace insensitive", func() {
		result := s.login("  User@RoomAlchemy.io ", "userpass")
		s.Equal("user@roomalchemy.io", result.User.Email)
	})

	s.Run("unknown email rejected", func() {
		_, err := s.service.Login(s.ctx, models.LoginRequest{Email: "nobody@roomalchemy.io", Password: "x"})
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeInvalidCredentials))
	})

	s.Run("wrong password rejected with the same error", func() {
		_, err := s.service.Login(s.ctx, models.LoginRequest{Email: "user@roomalchemy.io", Password: "wrong"})
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeInvalidCredentials))
	})
}

func (s *ServiceSuite) TestAuthenticate() {
	s.Run("fresh token resolves to its identity", func() {
		result := s.login("user@roomalchemy.io", "userpass")

		identity, err := s.service.Authenticate(s.ctx, result.Token)
		s.Require().NoError(err)
		s.Equal("user-demo", identity.UserID)
		s.Equal(policy.RoleUser, identity.Role)
		s.Equal(result.Token, identity.Token)
	})

	s.Run("invalid token rejected", func() {
		_, err := s.service.Authenticate(s.ctx, "bogus")
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestLogout() {
	s.Run("revoked token is rejected even though the signature is valid", func() {
		result := s.login("user@roomalchemy.io", "userpass")

		s.Require().NoError(s.service.Logout(s.ctx, result.Token))

		_, err := s.service.Authenticate(s.ctx, result.Token)
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeUnauthorized))

		revoked, err := s.service.IsRevoked(s.ctx, result.Token)
		s.Require().NoError(err)
		s.True(revoked)
	})

	s.Run("logout is idempotent", func() {
		result := s.login("guest@roomalchemy.io", "guestpass")

		s.Require().NoError(s.service.Logout(s.ctx, result.Token))
		s.Require().NoError(s.service.Logout(s.ctx, result.Token))
	})

	s.Run("empty token rejected", func() {
		err := s.service.Logout(s.ctx, "")
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeInvalidRequest))
	})

	s.Run("reset restores a revoked token", func() {
		result := s.login("user@roomalchemy.io", "userpass")
		s.Require().NoError(s.service.Logout(s.ctx, result.Token))

		s.Require().NoError(s.service.ResetRevocations(s.ctx))

		_, err := s.service.Authenticate(s.ctx, result.Token)
		s.NoError(err)
	})
}
