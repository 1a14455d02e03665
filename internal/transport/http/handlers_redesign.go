package httptransport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"roomalchemy/internal/platform/middleware"
	"roomalchemy/internal/redesign"
	"roomalchemy/pkg/platform/httputil"
)

// quotaExceededResponse carries the window reset time alongside the envelope.
type quotaExceededResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	ResetAt time.Time `json:"resetAt"`
}

// handleRedesign buffers and validates the upload, then hands off to the
// orchestrator. All terminal statuses here are contractual.
func (h *Handler) handleRedesign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := h.gate.Parse(r)
	if err != nil {
		h.logger.WarnContext(ctx, "upload rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	req := &redesign.Request{
		Style:     form.Values["style"],
		Image:     form.Upload,
		Identity:  middleware.GetIdentity(ctx),
		ClientIP:  middleware.GetClientIP(ctx),
		UserAgent: middleware.GetUserAgent(ctx),
		RequestID: middleware.GetRequestID(ctx),
	}

	result, err := h.redesign.Redesign(ctx, req)
	if err != nil {
		var quotaErr *redesign.QuotaExceededError
		if errors.As(err, &quotaErr) {
			httputil.WriteJSON(w, http.StatusForbidden, quotaExceededResponse{
				Error:   "quota_exceeded",
				Message: quotaErr.Err.Message,
				ResetAt: quotaErr.ResetAt,
			})
			return
		}
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Image)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Image)
}

// handleStyles lists the supported presets.
func (h *Handler) handleStyles(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, map[string]any{"styles": redesign.AvailableStyles()})
}
