package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector(t *testing.T) {
	t.Parallel()

	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, nil)
	assert.Error(t, err, "namespace is required")

	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableProcessMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "process_cpu_seconds_total")
}

func TestRegisterCounter(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	c.RegisterCounter("compare_total", "help", "topic").WithLabelValues("punitive_damages").Add(3)
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_compare_total{topic="punitive_damages"} 3`)
}

func TestRegisterCounter_DuplicateSharesVector(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_dup_total 2")
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	c.RegisterGauge("generation", "help").WithLabelValues().Set(7)
	c.RegisterHistogram("latency_seconds", "help", nil).WithLabelValues().Observe(0.1)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_generation 7")
	assert.Contains(t, out, "test_unit_latency_seconds_bucket")
}

func TestTypeConflictFallsBackToNoop(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	gauge := c.RegisterGauge("conflict", "help")
	assert.NotPanics(t, func() { gauge.WithLabelValues().Set(10) })
	assert.Contains(t, scrapeMetrics(t, c), "# TYPE test_unit_conflict counter")
}

func TestConcurrentRegistration(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_total", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_concurrent_total{id="1"} 50`)
}

func TestMustRegisterAndUnregister(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	pc := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_total"})
	c.MustRegister(pc)
	assert.Contains(t, scrapeMetrics(t, c), "custom_total")

	assert.True(t, c.Unregister(pc))
	assert.NotContains(t, scrapeMetrics(t, c), "custom_total")
}

func TestNoopCollector(t *testing.T) {
	t.Parallel()

	c := NewNoopCollector()
	assert.NotPanics(t, func() {
		c.RegisterCounter("a", "h").WithLabelValues("x").Inc()
		c.RegisterGauge("b", "h").WithLabelValues().Set(1)
		c.RegisterHistogram("c", "h", nil).WithLabelValues().Observe(1)
		c.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "d"}))
	})
	assert.False(t, c.Unregister(nil))

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTimer(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	timer := NewTimer(c.RegisterHistogram("timer_seconds", "help", nil).WithLabelValues())
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.ObserveDuration(), 5*time.Millisecond)
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timer_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
