package events

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"roomalchemy/internal/platform/metrics"
)

// Recorder is the single entry point for outcome events: it updates the
// in-process aggregator and operational counters synchronously, then hands the
// event to the dispatcher for asynchronous sink delivery.
type Recorder struct {
	aggregator *Aggregator
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithMetrics attaches Prometheus counters updated alongside the aggregator.
func WithMetrics(m *metrics.Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// NewRecorder wires the aggregator and dispatcher behind one Record call.
func NewRecorder(aggregator *Aggregator, dispatcher *Dispatcher, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		aggregator: aggregator,
		dispatcher: dispatcher,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record registers one outcome event. The synchronous part is cheap and always
// succeeds; sink delivery is fire-and-forget.
func (r *Recorder) Record(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	r.aggregator.Record(ev)
	r.observe(ev)

	r.logger.InfoContext(ctx, string(ev.Kind),
		"path", ev.Path,
		"style", ev.Style,
		"status", ev.Status,
		"success", ev.Success,
		"error_kind", ev.ErrorKind,
		"user_id", ev.UserID,
		"role", ev.Role,
		"request_id", ev.RequestID,
	)

	if r.dispatcher != nil {
		r.dispatcher.Enqueue(ev)
	}
}

// Snapshot returns the aggregated metrics view as of now.
func (r *Recorder) Snapshot(now time.Time) Snapshot {
	return r.aggregator.Snapshot(now)
}

func (r *Recorder) observe(ev Event) {
	if r.metrics == nil {
		return
	}
	switch ev.Kind {
	case KindRequest:
		r.metrics.RequestsTotal.WithLabelValues(strconv.Itoa(ev.Status)).Inc()
		r.metrics.RequestLatency.Observe(float64(ev.LatencyMS))
	case KindTransform:
		outcome := "success"
		if !ev.Success {
			outcome = "failure"
			r.metrics.ErrorsTotal.WithLabelValues(failureKind(ev)).Inc()
		}
		r.metrics.TransformsTotal.WithLabelValues(ev.Style, outcome).Inc()
	case KindError:
		r.metrics.ErrorsTotal.WithLabelValues(failureKind(ev)).Inc()
	}
}
