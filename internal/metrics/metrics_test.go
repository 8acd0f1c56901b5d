package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/travel-timeline/internal/metrics"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/entries", "200", time.Now())
	m.ObserveRequest("GET", "/entries", "200", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/entries", "200")))
}

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.AddEntriesImported(3)
	m.ObserveTimeline(2)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.EntriesImported))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TimelineBuilds))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", "200", time.Now())
		m.AddEntriesImported(1)
		m.ObserveTimeline(1)
	})
}
