package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	platformmw "roomalchemy/internal/platform/middleware"
	"roomalchemy/internal/ratelimit/models"
)

type stubLimiter struct {
	result models.Result
	keys   []string
}

func (l *stubLimiter) Check(_ context.Context, key string) models.Result {
	l.keys = append(l.keys, key)
	return l.result
}

type RateLimitMiddlewareSuite struct {
	suite.Suite
}

func TestRateLimitMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(RateLimitMiddlewareSuite))
}

func (s *RateLimitMiddlewareSuite) serve(limiter Limiter) *httptest.ResponseRecorder {
	handler := RateLimit(limiter, "RoomAlchemy API")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/redesign", nil)
	req = req.WithContext(platformmw.WithClientMetadata(req.Context(), "203.0.113.9", "curl"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func (s *RateLimitMiddlewareSuite) TestAllowedRequestPassesWithHeaders() {
	resetAt := time.Date(2026, 8, 31, 12, 1, 0, 0, time.UTC)
	limiter := &stubLimiter{result: models.Result{
		Allowed:   true,
		Limit:     5,
		Remaining: 4,
		ResetAt:   resetAt,
	}}

	rec := s.serve(limiter)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("5", rec.Header().Get("X-RateLimit-Limit"))
	s.Equal("4", rec.Header().Get("X-RateLimit-Remaining"))
	s.Equal(strconv.FormatInt(resetAt.Unix(), 10), rec.Header().Get("X-RateLimit-Reset"))
	s.Equal([]string{"203.0.113.9"}, limiter.keys)
}

func (s *RateLimitMiddlewareSuite) TestDeniedRequestGets429() {
	limiter := &stubLimiter{result: models.Result{
		Allowed:    false,
		Limit:      5,
		Remaining:  0,
		ResetAt:    time.Date(2026, 8, 31, 12, 1, 0, 0, time.UTC),
		RetryAfter: 42,
	}}

	rec := s.serve(limiter)

	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("42", rec.Header().Get("Retry-After"))
	s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))

	var body models.ExceededResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("rate_limited", body.Error)
	s.Equal(42, body.RetryAfter)
	s.Contains(body.Message, "RoomAlchemy API")
}
