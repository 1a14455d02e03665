package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	authmodels "roomalchemy/internal/auth/models"
	"roomalchemy/internal/events"
	"roomalchemy/internal/redesign"
	"roomalchemy/internal/upload"
)

// AuthService is the credential and token-lifecycle surface the handlers use.
type AuthService interface {
	Login(ctx context.Context, req authmodels.LoginRequest) (*authmodels.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// RedesignService runs the transform pipeline.
type RedesignService interface {
	Redesign(ctx context.Context, req *redesign.Request) (*redesign.Result, error)
}

// MetricsSource provides the aggregated snapshot for the admin endpoint.
type MetricsSource interface {
	Snapshot(now time.Time) events.Snapshot
}

// Handler holds the domain services behind the HTTP surface.
type Handler struct {
	auth     AuthService
	redesign RedesignService
	metrics  MetricsSource
	gate     *upload.Gate
	logger   *slog.Logger
}

// NewHandler creates the transport handler.
func NewHandler(
	auth AuthService,
	redesignSvc RedesignService,
	metrics MetricsSource,
	gate *upload.Gate,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		redesign: redesignSvc,
		metrics:  metrics,
		gate:     gate,
		logger:   logger,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, map[string]string{"status": "ok"})
}
