// Package httptransport is the thin HTTP layer. It delegates to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roomalchemy/internal/platform/middleware"
	"roomalchemy/internal/policy"
	ratelimitmw "roomalchemy/internal/ratelimit/middleware"
	"roomalchemy/pkg/platform/httputil"
)

// RouterConfig carries the transport-level knobs.
type RouterConfig struct {
	AuthOptional bool
}

// NewRouter wires all public endpoints with the shared middleware chain:
// recovery, correlation ID, client metadata, the request-outcome logger, and
// the per-client throttle. Throttling runs before auth so an over-limit caller
// sees 429 even with a bad token.
func NewRouter(
	h *Handler,
	authenticator middleware.Authenticator,
	recorder middleware.EventRecorder,
	limiter ratelimitmw.Limiter,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.RequestLogger(recorder))
	r.Use(ratelimitmw.RateLimit(limiter, "RoomAlchemy API"))

	r.Get("/health", h.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
	})

	r.Route("/redesign", func(r chi.Router) {
		r.Get("/styles", h.handleStyles)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authenticator, logger, cfg.AuthOptional))
			r.Post("/", h.handleRedesign)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(authenticator, logger, false))
		r.Use(middleware.RequireRole(policy.RoleAdmin))
		r.Get("/metrics", h.handleMetrics)
		r.Handle("/prometheus", promhttp.Handler())
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{
			Error:   "not_found",
			Message: "Endpoint not found.",
		})
	})

	return r
}
