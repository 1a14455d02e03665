package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"roomalchemy/internal/auth/models"
	"roomalchemy/internal/policy"
	derrors "roomalchemy/pkg/domain-errors"
	"roomalchemy/pkg/platform/httputil"
)

// Authenticator resolves a bearer token to a verified identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

type contextKeyIdentity struct{}

// GetIdentity retrieves the authenticated identity from the context. Nil means
// the caller is anonymous (only possible in optional-auth mode).
func GetIdentity(ctx context.Context) *models.Identity {
	identity, ok := ctx.Value(contextKeyIdentity{}).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

// WithIdentity injects an identity into a context for tests.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity{}, identity)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const bearerPrefix = "Bearer "
	if after, ok := strings.CutPrefix(header, bearerPrefix); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(header)
}

// RequireAuth validates the bearer token and attaches the identity to the
// request context. When optional is true, requests without an Authorization
// header pass through anonymously; a header that is present must still verify.
func RequireAuth(authenticator Authenticator, logger *slog.Logger, optional bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				if optional {
					next.ServeHTTP(w, r)
					return
				}
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "Authentication required."))
				return
			}

			tokenString := BearerToken(header)
			if tokenString == "" {
				httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "Invalid authorization header."))
				return
			}

			identity, err := authenticator.Authenticate(ctx, tokenString)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

// RequireRole rejects callers whose role is below the required tier.
func RequireRole(required policy.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil || !identity.Role.AtLeast(required) {
				httputil.WriteError(w, derrors.New(derrors.CodeForbidden, "Insufficient role permissions."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
