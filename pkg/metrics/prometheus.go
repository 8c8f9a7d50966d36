// Package metrics provides Prometheus metrics for the loadout recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recommendation metrics
	recommendationsServed prometheus.Counter
	decksScored           prometheus.Counter
	scoringLatency        prometheus.Histogram
	experimentAssignments *prometheus.CounterVec
	feedbackReceived      prometheus.Counter

	// Rate limiter metrics
	rateLimitAllowed  *prometheus.CounterVec
	rateLimitBlocked  *prometheus.CounterVec
	rateLimitBypassed prometheus.Counter
	rateLimitFallback prometheus.Counter

	// Analytics sink metrics
	analyticsEmitted prometheus.Counter
	analyticsDropped prometheus.Counter

	// Session cache metrics
	sessionCacheHits   prometheus.Counter
	sessionCacheMisses prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "loadout",
		subsystem:        "recommend",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recommendationsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Total number of recommendation requests served",
	})

	m.decksScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decks_scored_total",
		Help:      "Total number of individual deck scoring passes",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of full catalog ranking latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.experimentAssignments = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "experiment_assignments_total",
			Help:      "Total experiment assignments by variant and reason",
		},
		[]string{"variant", "reason"},
	)

	m.feedbackReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_received_total",
		Help:      "Total number of recommendation feedback submissions",
	})

	m.rateLimitAllowed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rate_limit_allowed_total",
			Help:      "Total requests allowed by the rate limiter, by resource",
		},
		[]string{"resource"},
	)

	m.rateLimitBlocked = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rate_limit_blocked_total",
			Help:      "Total requests blocked by the rate limiter, by resource",
		},
		[]string{"resource"},
	)

	m.rateLimitBypassed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rate_limit_bypassed_total",
		Help:      "Total requests that bypassed the rate limiter via internal token",
	})

	m.rateLimitFallback = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rate_limit_fallback_total",
		Help:      "Total checks served by the in-memory fallback because the shared store failed",
	})

	m.analyticsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analytics_events_emitted_total",
		Help:      "Total analytics events delivered to the sink",
	})

	m.analyticsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analytics_events_dropped_total",
		Help:      "Total analytics events dropped due to backpressure or sink failure",
	})

	m.sessionCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_cache_hits_total",
		Help:      "Total session cache lookups that found an entry",
	})

	m.sessionCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_cache_misses_total",
		Help:      "Total session cache lookups that found nothing",
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
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordRecommendationServed increments the recommendations served counter.
func RecordRecommendationServed() {
	globalManager.recommendationsServed.Inc()
}

// RecordDeckScored increments the decks scored counter.
func RecordDeckScored() {
	globalManager.decksScored.Inc()
}

// RecordScoringLatency records catalog ranking latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordExperimentAssignment records an experiment assignment by variant and reason.
func RecordExperimentAssignment(variant, reason string) {
	globalManager.experimentAssignments.WithLabelValues(variant, reason).Inc()
}

// RecordFeedbackReceived increments the feedback counter.
func RecordFeedbackReceived() {
	globalManager.feedbackReceived.Inc()
}

// RecordRateLimitAllowed increments the allowed counter for a resource.
func RecordRateLimitAllowed(resource string) {
	globalManager.rateLimitAllowed.WithLabelValues(resource).Inc()
}

// RecordRateLimitBlocked increments the blocked counter for a resource.
func RecordRateLimitBlocked(resource string) {
	globalManager.rateLimitBlocked.WithLabelValues(resource).Inc()
}

// RecordRateLimitBypassed increments the bypass counter.
func RecordRateLimitBypassed() {
	globalManager.rateLimitBypassed.Inc()
}

// RecordRateLimitFallback increments the in-memory fallback counter.
func RecordRateLimitFallback() {
	globalManager.rateLimitFallback.Inc()
}

// RecordAnalyticsEmitted increments the emitted analytics events counter.
func RecordAnalyticsEmitted() {
	globalManager.analyticsEmitted.Inc()
}

// RecordAnalyticsDropped increments the dropped analytics events counter.
func RecordAnalyticsDropped() {
	globalManager.analyticsDropped.Inc()
}

// RecordSessionCacheHit increments the session cache hit counter.
func RecordSessionCacheHit() {
	globalManager.sessionCacheHits.Inc()
}

// RecordSessionCacheMiss increments the session cache miss counter.
func RecordSessionCacheMiss() {
	globalManager.sessionCacheMisses.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
