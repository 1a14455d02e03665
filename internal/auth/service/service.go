// Package service owns the token lifecycle: credential checks, issuance,
// verification, and revocation.
package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"roomalchemy/internal/auth/models"
	"roomalchemy/internal/auth/store/revocation"
	"roomalchemy/internal/auth/token"
	"roomalchemy/internal/policy"
	derrors "roomalchemy/pkg/domain-errors"
)

type account struct {
	user         models.User
	passwordHash []byte
}

// Service authenticates callers and manages token revocation. Tokens are
// accepted only when the signature validates AND the token is absent from the
// revocation set; the revocation check runs first so a revoked token is never
// accepted, valid or not.
type Service struct {
	tokens      *token.Service
	revocations revocation.Store
	accounts    map[string]account
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates the auth service with the demo account tiers seeded. Password
// hashes are computed once at startup; plaintext is never retained.
func New(tokens *token.Service, revocations revocation.Store, opts ...Option) (*Service, error) {
	if tokens == nil {
		return nil, derrors.New(derrors.CodeInternal, "token service is required")
	}
	if revocations == nil {
		return nil, derrors.New(derrors.CodeInternal, "revocation store is required")
	}

	svc := &Service{
		tokens:      tokens,
		revocations: revocations,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	if err := svc.seedAccounts(); err != nil {
		return nil, err
	}
	return svc, nil
}

// Demo tier accounts, one per role.
var seedCredentials = []struct {
	email    string
	password string
	id       string
	role     policy.Role
	name     string
}{
	{"guest@roomalchemy.io", "guestpass", "guest-demo", policy.RoleGuest, "Guest Designer"},
	{"user@roomalchemy.io", "userpass", "user-demo", policy.RoleUser, "Unlimited User"},
	{"admin@roomalchemy.io", "adminpass", "admin-demo", policy.RoleAdmin, "Control Center"},
}

func (s *Service) seedAccounts() error {
	s.accounts = make(map[string]account, len(seedCredentials))
	for _, cred := range seedCredentials {
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.password), bcrypt.DefaultCost)
		if err != nil {
			return derrors.Wrap(err, derrors.CodeInternal, "failed to seed accounts")
		}
		s.accounts[cred.email] = account{
			user: models.User{
				ID:    cred.id,
				Email: cred.email,
				Role:  cred.role,
				Name:  cred.name,
			},
			passwordHash: hash,
		}
	}
	return nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	acct, ok := s.accounts[email]
	if !ok {
		return nil, derrors.New(derrors.CodeInvalidCredentials, "Invalid email or password.")
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)); err != nil {
		return nil, derrors.New(derrors.CodeInvalidCredentials, "Invalid email or password.")
	}

	signed, err := s.tokens.Issue(acct.user.ID, acct.user.Role, acct.user.Email)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to issue token")
	}

	return &models.LoginResult{Token: signed, User: acct.user}, nil
}

// Logout revokes the presented token. Revoking an already-revoked token is a
// no-op that still reports success.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return derrors.New(derrors.CodeInvalidRequest, "Authorization header required.")
	}
	if err := s.revocations.Revoke(ctx, tokenString); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "failed to revoke token")
	}
	s.logger.InfoContext(ctx, "token revoked")
	return nil
}

// Authenticate resolves a token string to a verified identity. The revocation
// check runs before signature verification.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*models.Identity, error) {
	revoked, err := s.revocations.IsRevoked(ctx, tokenString)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to check revocation list")
	}
	if revoked {
		return nil, derrors.New(derrors.CodeUnauthorized, "Token has been revoked.")
	}

	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	return &models.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.ParsedRole(),
		Token:  tokenString,
	}, nil
}

// IsRevoked is a pure lookup on the revocation set.
func (s *Service) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	return s.revocations.IsRevoked(ctx, tokenString)
}

// ResetRevocations clears the revocation set (administrative/test use).
func (s *Service) ResetRevocations(ctx context.Context) error {
	return s.revocations.Reset(ctx)
}
