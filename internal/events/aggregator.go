package events

import (
	"fmt"
	"sync"
	"time"
)

const (
	// recentLogCap bounds the in-memory request log. Eviction drops to half
	// capacity in one batch so inserts stay O(1) amortized.
	recentLogCap   = 10000
	recentLogFloor = recentLogCap / 2

	recencyWindow = 24 * time.Hour
)

type logEntry struct {
	at     time.Time
	status int
}

// Aggregator is the in-process metrics store. All mutation goes through
// Record under a single mutex; readers get derived copies, never live maps.
type Aggregator struct {
	mu sync.Mutex

	totalRequests   int64
	totalTransforms int64
	byStyle         map[string]StyleCounts
	errorsByKind    map[string]int64
	byClient        map[string]int64
	recent          []logEntry
}

// NewAggregator creates an empty metrics aggregator.
func NewAggregator() *Aggregator {
	a := &Aggregator{}
	a.reset()
	return a
}

// Record folds one event into the aggregate state. Cheap and infallible by
// design; it must never slow down the request path.
func (a *Aggregator) Record(ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev.Kind {
	case KindRequest:
		a.totalRequests++
		if ev.ClientIP != "" {
			a.byClient[ev.ClientIP]++
		}
		a.recent = append(a.recent, logEntry{at: ev.Timestamp, status: ev.Status})
		if len(a.recent) > recentLogCap {
			a.recent = append(a.recent[:0], a.recent[len(a.recent)-recentLogFloor:]...)
		}
	case KindTransform:
		counts := a.byStyle[ev.Style]
		if ev.Success {
			a.totalTransforms++
			counts.Success++
		} else {
			counts.Failure++
			a.errorsByKind[failureKind(ev)]++
		}
		if ev.Style != "" {
			a.byStyle[ev.Style] = counts
		}
	case KindError:
		a.errorsByKind[failureKind(ev)]++
	}
}

// failureKind resolves the taxonomy kind a failure event counts under, so the
// snapshot partitions errors the same way the error envelope does.
func failureKind(ev Event) string {
	if ev.ErrorKind != "" {
		return ev.ErrorKind
	}
	if ev.Kind == KindTransform {
		return "transform_failure"
	}
	return "unknown"
}

// Snapshot returns the aggregated view, filtering the bounded log to entries
// within the last 24 hours of now.
func (a *Aggregator) Snapshot(now time.Time) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	styles := make(map[string]StyleCounts, len(a.byStyle))
	for k, v := range a.byStyle {
		styles[k] = v
	}
	errs := make(map[string]int64, len(a.errorsByKind))
	for k, v := range a.errorsByKind {
		errs[k] = v
	}
	clients := make(map[string]int64, len(a.byClient))
	for k, v := range a.byClient {
		clients[k] = v
	}

	window := WindowCounts{ByStatus: make(map[string]int64)}
	cutoff := now.Add(-recencyWindow)
	for _, entry := range a.recent {
		if entry.at.Before(cutoff) {
			continue
		}
		window.Total++
		window.ByStatus[fmt.Sprintf("status_%d", entry.status)]++
	}

	return Snapshot{
		TotalRequests:     a.totalRequests,
		TotalTransforms:   a.totalTransforms,
		TransformsByStyle: styles,
		ErrorsByKind:      errs,
		TopClients:        clients,
		Last24H:           window,
	}
}

// Reset clears all aggregate state (administrative/test use).
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *Aggregator) reset() {
	a.totalRequests = 0
	a.totalTransforms = 0
	a.byStyle = make(map[string]StyleCounts)
	a.errorsByKind = make(map[string]int64)
	a.byClient = make(map[string]int64)
	a.recent = a.recent[:0]
}
