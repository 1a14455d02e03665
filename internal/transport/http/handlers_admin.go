package httptransport

import (
	"net/http"
	"time"
)

// handleMetrics returns the aggregated snapshot. Access is restricted to the
// admin tier by route middleware.
func (h *Handler) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, h.metrics.Snapshot(time.Now()))
}
