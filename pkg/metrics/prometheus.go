// Package metrics provides Prometheus metrics for the brewrank pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline and the
// dashboard server.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline Metrics - What really matters for a batch reconciliation run
	pipelineRuns     prometheus.Counter
	pipelineDuration prometheus.Histogram
	listingsLoaded   *prometheus.GaugeVec
	unkeyableRecords *prometheus.GaugeVec
	canonicalShops   prometheus.Gauge
	mergeCollisions  prometheus.Gauge
	reviewBundles    prometheus.Gauge
	rankedShops      prometheus.Gauge

	// Sentiment Metrics
	sentimentLatency prometheus.Histogram
	sentimentErrors  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - per-component degradation tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "brewrank",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of pipeline runs",
	})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Histogram of full pipeline run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.listingsLoaded = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "listings_loaded",
			Help:      "Raw listings loaded in the last run, by provider",
		},
		[]string{"provider"},
	)

	m.unkeyableRecords = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "unkeyable_records",
			Help:      "Listings excluded from matching for missing name or coordinates, by provider",
		},
		[]string{"provider"},
	)

	m.canonicalShops = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "canonical_shops",
		Help:      "Canonical shop records produced by the last merge",
	})

	m.mergeCollisions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "merge_collisions",
		Help:      "Rows dropped by the post-merge canonical triple dedupe",
	})

	m.reviewBundles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "review_bundles",
		Help:      "Review bundles with usable text in the last run",
	})

	m.rankedShops = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranked_shops",
		Help:      "Ranked shop rows produced by the last run",
	})

	m.sentimentLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sentiment_latency_milliseconds",
		Help:      "Histogram of per-bundle sentiment scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sentimentErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sentiment_errors_total",
		Help:      "Total number of review bundles that failed sentiment scoring",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of degraded-and-continued errors by component",
		},
		[]string{"component", "kind"},
	)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global helpers mirroring the manager surface. The pipeline and HTTP
// layers call these rather than holding a manager reference.

// RecordPipelineRun increments the pipeline run counter.
func RecordPipelineRun() { globalManager.pipelineRuns.Inc() }

// RecordPipelineDuration records a full pipeline run duration in milliseconds.
func RecordPipelineDuration(ms float64) { globalManager.pipelineDuration.Observe(ms) }

// UpdateListingsLoaded sets the raw listing count loaded for a provider.
func UpdateListingsLoaded(provider string, n int) {
	globalManager.listingsLoaded.WithLabelValues(provider).Set(float64(n))
}

// UpdateUnkeyableRecords sets the unkeyable listing count for a provider.
func UpdateUnkeyableRecords(provider string, n int) {
	globalManager.unkeyableRecords.WithLabelValues(provider).Set(float64(n))
}

// UpdateCanonicalShops sets the canonical shop count for the last merge.
func UpdateCanonicalShops(n int) { globalManager.canonicalShops.Set(float64(n)) }

// UpdateMergeCollisions sets the triple-dedupe drop count for the last merge.
func UpdateMergeCollisions(n int) { globalManager.mergeCollisions.Set(float64(n)) }

// UpdateReviewBundles sets the review bundle count for the last run.
func UpdateReviewBundles(n int) { globalManager.reviewBundles.Set(float64(n)) }

// UpdateRankedShops sets the ranked row count for the last run.
func UpdateRankedShops(n int) { globalManager.rankedShops.Set(float64(n)) }

// RecordSentimentLatency records per-bundle scoring latency in milliseconds.
func RecordSentimentLatency(ms float64) { globalManager.sentimentLatency.Observe(ms) }

// RecordSentimentError increments the sentiment scoring error counter.
func RecordSentimentError() { globalManager.sentimentErrors.Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByComponent increments the per-component degradation counter.
func RecordErrorByComponent(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}
