// Package prometheus exposes JurisCompare metrics through client_golang with
// noop fallbacks, so callers never have to nil-check a metric.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// MetricsCollector registers metric vectors and serves the exposition handler.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
	MustRegister(collectors ...prometheus.Collector)
	Unregister(collector prometheus.Collector) bool
}

// CounterVec wraps prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter wraps prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec wraps prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge wraps prometheus.Gauge.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// HistogramVec wraps prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram wraps prometheus.Observer.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Namespace               string
	Subsystem               string
	EnableProcessMetrics    bool
	EnableGoMetrics         bool
	DefaultHistogramBuckets []float64
	ConstLabels             map[string]string
}

type prometheusCollector struct {
	registry          *prometheus.Registry
	config            CollectorConfig
	registeredMetrics map[string]prometheus.Collector
	mu                sync.Mutex
	logger            logging.Logger
}

// NewMetricsCollector creates a collector backed by a private registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}
	if cfg.DefaultHistogramBuckets == nil {
		cfg.DefaultHistogramBuckets = prometheus.DefBuckets
	}

	return &prometheusCollector{
		registry:          registry,
		config:            cfg,
		registeredMetrics: make(map[string]prometheus.Collector),
		logger:            logger,
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *prometheusCollector) MustRegister(collectors ...prometheus.Collector) {
	c.registry.MustRegister(collectors...)
}

func (c *prometheusCollector) Unregister(collector prometheus.Collector) bool {
	return c.registry.Unregister(collector)
}

// register returns the collector already registered under name, if any.
func (c *prometheusCollector) register(name string, newCollector prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fullName := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, ok := c.registeredMetrics[fullName]; ok {
		return existing, nil
	}
	if err := c.registry.Register(newCollector); err != nil {
		return nil, err
	}
	c.registeredMetrics[fullName] = newCollector
	return newCollector, nil
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)

	registered, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("failed to register counter", logging.String("name", name), logging.Err(err))
		return noopCounterVec{}
	}
	if v, ok := registered.(*prometheus.CounterVec); ok {
		return &promCounterVec{vec: v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("type", "counter"))
	return noopCounterVec{}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)

	registered, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("failed to register gauge", logging.String("name", name), logging.Err(err))
		return noopGaugeVec{}
	}
	if v, ok := registered.(*prometheus.GaugeVec); ok {
		return &promGaugeVec{vec: v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("type", "gauge"))
	return noopGaugeVec{}
}

func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = c.config.DefaultHistogramBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
		Buckets:     buckets,
	}, labels)

	registered, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("failed to register histogram", logging.String("name", name), logging.Err(err))
		return noopHistogramVec{}
	}
	if v, ok := registered.(*prometheus.HistogramVec); ok {
		return &promHistogramVec{vec: v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("type", "histogram"))
	return noopHistogramVec{}
}

// ─────────────────────────────────────────────────────────────────────────────
// Wrappers
// ─────────────────────────────────────────────────────────────────────────────

type promCounterVec struct{ vec *prometheus.CounterVec }

func (v *promCounterVec) WithLabelValues(lvs ...string) Counter { return v.vec.WithLabelValues(lvs...) }

type promGaugeVec struct{ vec *prometheus.GaugeVec }

func (v *promGaugeVec) WithLabelValues(lvs ...string) Gauge { return v.vec.WithLabelValues(lvs...) }

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (v *promHistogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.vec.WithLabelValues(lvs...)
}

// ─────────────────────────────────────────────────────────────────────────────
// No-op implementations
// ─────────────────────────────────────────────────────────────────────────────

type noopCounterVec struct{}

func (noopCounterVec) WithLabelValues(_ ...string) Counter { return noopMetric{} }

type noopGaugeVec struct{}

func (noopGaugeVec) WithLabelValues(_ ...string) Gauge { return noopMetric{} }

type noopHistogramVec struct{}

func (noopHistogramVec) WithLabelValues(_ ...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()              {}
func (noopMetric) Dec()              {}
func (noopMetric) Add(_ float64)     {}
func (noopMetric) Set(_ float64)     {}
func (noopMetric) Observe(_ float64) {}

type noopCollector struct{}

// NewNoopCollector returns a collector whose metrics discard every sample.
func NewNoopCollector() MetricsCollector { return noopCollector{} }

func (noopCollector) RegisterCounter(_, _ string, _ ...string) CounterVec { return noopCounterVec{} }
func (noopCollector) RegisterGauge(_, _ string, _ ...string) GaugeVec     { return noopGaugeVec{} }
func (noopCollector) RegisterHistogram(_, _ string, _ []float64, _ ...string) HistogramVec {
	return noopHistogramVec{}
}
func (noopCollector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
}
func (noopCollector) MustRegister(_ ...prometheus.Collector) {}
func (noopCollector) Unregister(_ prometheus.Collector) bool { return false }

// ─────────────────────────────────────────────────────────────────────────────
// Timer
// ─────────────────────────────────────────────────────────────────────────────

// Timer observes the elapsed time since its creation into a histogram.
type Timer struct {
	histogram Histogram
	start     time.Time
}

func NewTimer(histogram Histogram) *Timer {
	return &Timer{histogram: histogram, start: time.Now()}
}

// ObserveDuration records the elapsed seconds and returns the duration.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	if t.histogram != nil {
		t.histogram.Observe(d.Seconds())
	}
	return d
}

//Personal.AI order the ending
