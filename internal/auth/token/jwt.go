// Package token issues and verifies the signed identity tokens callers
// present on every authenticated request.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"roomalchemy/internal/policy"
	derrors "roomalchemy/pkg/domain-errors"
)

// Claims is the signed claim set carried by an identity token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ParsedRole returns the role claim as a policy role, defaulting unknown
// values to guest so a forged role string never grants more access.
func (c *Claims) ParsedRole() policy.Role {
	role := policy.Role(c.Role)
	if !role.IsValid() {
		return policy.RoleGuest
	}
	return role
}

// Service signs and verifies identity tokens.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewService creates a token service with a fixed expiry (default 24h).
func NewService(signingKey string, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Issue produces a signed token for the given identity. No side effects
// beyond signing.
func (s *Service) Issue(userID string, role policy.Role, email string) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// Verify checks signature, signing method, and expiry. Revocation is the auth
// service's responsibility, not the token layer's.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	// Expiry, bad signature, and malformed input all collapse to one caller
	// message; the distinction stays out of responses.
	if err != nil {
		return nil, derrors.New(derrors.CodeUnauthorized, "Invalid or expired token.")
	}

	if !parsed.Valid {
		return nil, derrors.New(derrors.CodeUnauthorized, "Invalid or expired token.")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, derrors.New(derrors.CodeUnauthorized, "Invalid or expired token.")
	}

	return claims, nil
}
