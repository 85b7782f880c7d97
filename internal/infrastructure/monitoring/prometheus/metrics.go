package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// gRPC Layer
	GRPCRequestsTotal   CounterVec
	GRPCRequestDuration HistogramVec

	// Comparison
	CompareTotal    CounterVec
	CompareDuration HistogramVec

	// Choice of law
	ChoiceOfLawTotal      CounterVec
	ChoiceOfLawConfidence HistogramVec

	// Case law search
	SearchTotal       CounterVec
	SearchDuration    HistogramVec
	SearchResultCount HistogramVec

	// Snapshot
	SnapshotReloadsTotal   CounterVec
	SnapshotReloadDuration HistogramVec
	SnapshotGeneration     GaugeVec
	SnapshotSize           GaugeVec

	// Infrastructure Layer
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	FeedIngestTotal        CounterVec
	MessageProcessDuration HistogramVec
	ErrorsTotal            CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultEngineDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultReloadDurationBuckets = []float64{.05, .1, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultConfidenceBuckets     = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
	DefaultResultCountBuckets    = []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	// gRPC
	m.GRPCRequestsTotal = collector.RegisterCounter("grpc_requests_total", "Total gRPC requests", "service", "method", "code")
	m.GRPCRequestDuration = collector.RegisterHistogram("grpc_request_duration_seconds", "gRPC request duration", DefaultHTTPDurationBuckets, "service", "method")

	// Comparison
	m.CompareTotal = collector.RegisterCounter("compare_total", "Rule comparisons", "topic", "status")
	m.CompareDuration = collector.RegisterHistogram("compare_duration_seconds", "Rule comparison duration", DefaultEngineDurationBuckets, "topic")

	// Choice of law
	m.ChoiceOfLawTotal = collector.RegisterCounter("choice_of_law_total", "Choice-of-law analyses", "approach", "outcome")
	m.ChoiceOfLawConfidence = collector.RegisterHistogram("choice_of_law_confidence", "Choice-of-law confidence", DefaultConfidenceBuckets, "approach")

	// Search
	m.SearchTotal = collector.RegisterCounter("search_total", "Case law searches", "status")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "Case law search duration", DefaultEngineDurationBuckets)
	m.SearchResultCount = collector.RegisterHistogram("search_result_count", "Case law search result count", DefaultResultCountBuckets)

	// Snapshot
	m.SnapshotReloadsTotal = collector.RegisterCounter("snapshot_reloads_total", "Snapshot reloads", "trigger", "status")
	m.SnapshotReloadDuration = collector.RegisterHistogram("snapshot_reload_duration_seconds", "Snapshot reload duration", DefaultReloadDurationBuckets)
	m.SnapshotGeneration = collector.RegisterGauge("snapshot_generation", "Generation of the published snapshot")
	m.SnapshotSize = collector.RegisterGauge("snapshot_size", "Entries in the published snapshot", "kind")

	// Infrastructure
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.FeedIngestTotal = collector.RegisterCounter("feed_ingest_total", "Feed records ingested", "kind", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// NewNoopAppMetrics returns AppMetrics backed by NewNoopCollector.
func NewNoopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNoopCollector())
}

// Helpers

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordGRPCRequest(metrics *AppMetrics, service, method, code string, duration time.Duration) {
	metrics.GRPCRequestsTotal.WithLabelValues(service, method, code).Inc()
	metrics.GRPCRequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

func RecordCompare(metrics *AppMetrics, topic string, duration time.Duration, err error) {
	metrics.CompareTotal.WithLabelValues(topic, statusLabel(err)).Inc()
	metrics.CompareDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordChoiceOfLaw counts an analysis.  outcome is "selected" or the error
// code of a failed analysis.
func RecordChoiceOfLaw(metrics *AppMetrics, approach, outcome string, confidence float64) {
	metrics.ChoiceOfLawTotal.WithLabelValues(approach, outcome).Inc()
	if outcome == "selected" {
		metrics.ChoiceOfLawConfidence.WithLabelValues(approach).Observe(confidence)
	}
}

func RecordSearch(metrics *AppMetrics, duration time.Duration, results int, err error) {
	metrics.SearchTotal.WithLabelValues(statusLabel(err)).Inc()
	metrics.SearchDuration.WithLabelValues().Observe(duration.Seconds())
	if err == nil {
		metrics.SearchResultCount.WithLabelValues().Observe(float64(results))
	}
}

// RecordSnapshot records a reload attempt and, on success, the published
// generation and sizes.
func RecordSnapshot(metrics *AppMetrics, trigger string, duration time.Duration, generation uint64, sizes map[string]int, err error) {
	metrics.SnapshotReloadsTotal.WithLabelValues(trigger, statusLabel(err)).Inc()
	metrics.SnapshotReloadDuration.WithLabelValues().Observe(duration.Seconds())
	if err != nil {
		return
	}
	metrics.SnapshotGeneration.WithLabelValues().Set(float64(generation))
	for kind, n := range sizes {
		metrics.SnapshotSize.WithLabelValues(kind).Set(float64(n))
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordFeedIngest(metrics *AppMetrics, kind string, n int, err error) {
	metrics.FeedIngestTotal.WithLabelValues(kind, statusLabel(err)).Add(float64(n))
}

func RecordError(metrics *AppMetrics, component, code string) {
	metrics.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
