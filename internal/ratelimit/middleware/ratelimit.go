package middleware

import (
	"context"
	"net/http"
	"strconv"

	"roomalchemy/internal/platform/middleware"
	"roomalchemy/internal/ratelimit/models"
	"roomalchemy/pkg/platform/httputil"
)

// Limiter is the decision interface the middleware depends on.
type Limiter interface {
	Check(ctx context.Context, key string) models.Result
}

// RateLimit throttles by client address. Informational headers are set on
// every response, allowed or not.
func RateLimit(limiter Limiter, serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			result := limiter.Check(ctx, middleware.GetClientIP(ctx))

			addRateLimitHeaders(w, result)

			if !result.Allowed {
				writeRateLimitExceeded(w, result, serviceName)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result models.Result, serviceName string) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limited",
		Message:    "Too many requests to " + serviceName + ". Please retry later.",
		RetryAfter: result.RetryAfter,
	})
}
