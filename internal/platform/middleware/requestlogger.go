package middleware

import (
	"context"
	"net/http"
	"time"

	"roomalchemy/internal/events"
)

// EventRecorder receives one outcome event per completed request.
type EventRecorder interface {
	Record(ctx context.Context, ev events.Event)
}

// statusWriter captures the status code written downstream.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// RequestLogger emits exactly one request outcome event when the response
// finishes, regardless of which stage terminated the request.
func RequestLogger(recorder EventRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			ctx := r.Context()
			ev := events.Event{
				Kind:      events.KindRequest,
				Timestamp: time.Now(),
				RequestID: GetRequestID(ctx),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    sw.status,
				Success:   sw.status < 400,
				ClientIP:  GetClientIP(ctx),
				UserAgent: GetUserAgent(ctx),
				LatencyMS: time.Since(start).Milliseconds(),
			}
			if identity := GetIdentity(ctx); identity != nil {
				ev.UserID = identity.UserID
				ev.Role = identity.Role.String()
			}
			recorder.Record(ctx, ev)
		})
	}
}
