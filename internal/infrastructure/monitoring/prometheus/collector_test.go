package prometheus_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RingSense/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RingSense/internal/infrastructure/monitoring/prometheus"
)

func newCollector(t *testing.T) prometheus.MetricsCollector {
	t.Helper()
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: "ringsense",
		Subsystem: "test",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	t.Parallel()

	_, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestRegisterAndScrape(t *testing.T) {
	t.Parallel()

	c := newCollector(t)

	counter := c.RegisterCounter("events_total", "Total events", "kind")
	counter.WithLabelValues("ring").Inc()
	counter.WithLabelValues("ring").Add(2)

	gauge := c.RegisterGauge("depth", "Queue depth")
	gauge.WithLabelValues().Set(7)

	hist := c.RegisterHistogram("latency_seconds", "Latency", nil)
	hist.WithLabelValues().Observe(0.02)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "ringsense_test_events_total")
	assert.Contains(t, body, `kind="ring"`)
	assert.Contains(t, body, "ringsense_test_depth 7")
	assert.Contains(t, body, "ringsense_test_latency_seconds_bucket")
}

func TestRegister_DuplicateReusesExisting(t *testing.T) {
	t.Parallel()

	c := newCollector(t)
	first := c.RegisterCounter("dups_total", "Dup", "k")
	second := c.RegisterCounter("dups_total", "Dup", "k")

	first.WithLabelValues("a").Inc()
	second.WithLabelValues("a").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `ringsense_test_dups_total{k="a"} 2`)
}

func TestPerceptionMetrics(t *testing.T) {
	t.Parallel()

	m := prometheus.NewPerceptionMetrics(newCollector(t))
	require.NotNil(t, m)

	m.ObserveNormalise(5*time.Millisecond, nil)
	m.ObserveNormalise(time.Millisecond, assert.AnError)
	m.RingsDetectedTotal.WithLabelValues().Add(3)
	m.SDFMoleculesParsedTotal.WithLabelValues("ok").Inc()
}
