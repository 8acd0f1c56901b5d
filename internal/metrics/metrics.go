// Package metrics holds the Prometheus metrics for the Travel Timeline API.
// Every method is safe to call on a nil *Metrics, so tests and the CLI can
// run without a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EntriesImported prometheus.Counter
	TimelineBuilds  prometheus.Counter
	JourneysBuilt   prometheus.Histogram
}

// New creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in main and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_timeline_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_timeline_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		EntriesImported: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_timeline_entries_imported_total",
			Help: "Total travel entries written by imports",
		}),
		TimelineBuilds: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_timeline_builds_total",
			Help: "Total journey timelines derived",
		}),
		JourneysBuilt: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "travel_timeline_journeys_per_build",
			Help:    "Number of journeys in each derived timeline",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// ObserveRequest records one handled request. Call with time.Now() taken
// before the handler ran.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// AddEntriesImported records a successful import of n entries.
func (m *Metrics) AddEntriesImported(n int) {
	if m == nil {
		return
	}
	m.EntriesImported.Add(float64(n))
}

// ObserveTimeline records a derived timeline with the given journey count.
func (m *Metrics) ObserveTimeline(journeys int) {
	if m == nil {
		return
	}
	m.TimelineBuilds.Inc()
	m.JourneysBuilt.Observe(float64(journeys))
}
