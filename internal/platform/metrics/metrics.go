package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	TransformsTotal *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
	RequestLatency  prometheus.Histogram
	EventsDropped   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roomalchemy_requests_total",
			Help: "Total HTTP requests by status code",
		}, []string{"status"}),
		TransformsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roomalchemy_transforms_total",
			Help: "Total redesign transforms by style and outcome",
		}, []string{"style", "outcome"}),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roomalchemy_errors_total",
			Help: "Total errors by taxonomy kind",
		}, []string{"kind"}),
		RequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomalchemy_request_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000, 30000, 60000},
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roomalchemy_events_dropped_total",
			Help: "Outcome events dropped by the fan-out queue under overflow",
		}),
	}
}
