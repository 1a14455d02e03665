// Package events records one immutable outcome event per pipeline terminus and
// fans it out to the in-process aggregator and external sinks.
package events

import "time"

// Kind classifies an outcome event.
type Kind string

const (
	// KindRequest is emitted once per HTTP request when the response finishes.
	KindRequest Kind = "request"
	// KindTransform is emitted once per redesign pipeline traversal.
	KindTransform Kind = "transform"
	// KindError is emitted for failures surfaced at the outer boundary.
	KindError Kind = "error"
)

// Event is one immutable record of a completed pipeline traversal. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Method    string    `json:"method,omitempty"`
	Path      string    `json:"path,omitempty"`
	Style     string    `json:"style,omitempty"`
	Success   bool      `json:"success"`
	Status    int       `json:"status,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	InputSize int64     `json:"input_size,omitempty"`
	OutputSize int64    `json:"output_size,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	LatencyMS int64     `json:"latency_ms,omitempty"`
}

// Snapshot is the read-only aggregated metrics view.
type Snapshot struct {
	TotalRequests     int64                  `json:"totalRequests"`
	TotalTransforms   int64                  `json:"totalTransforms"`
	TransformsByStyle map[string]StyleCounts `json:"transformsByStyle"`
	ErrorsByKind      map[string]int64       `json:"errorsByType"`
	TopClients        map[string]int64       `json:"topIPs"`
	Last24H           WindowCounts           `json:"last24hCounts"`
}

// StyleCounts splits transform outcomes per style.
type StyleCounts struct {
	Success int64 `json:"success"`
	Failure int64 `json:"failure"`
}

// WindowCounts aggregates the bounded recent-request log over a recency window.
type WindowCounts struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}
