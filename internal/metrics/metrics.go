// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"status"}, // "success", "invalid", "backend_error", "error"
	)

	RecommendRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RecommendPhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_phase_duration_seconds",
			Help:    "Duration of each recommendation phase in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"phase"}, // "load", "featured", "top", "sentiment", "lookup", "semantic_search"
	)

	RecommendResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_results_total",
			Help: "Total number of recommendations returned, by result type",
		},
		[]string{"type"},
	)

	SentimentLoopIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_sentiment_loop_iterations",
			Help:    "Number of search rounds run by the sentiment phase",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	SentimentQuotaShortfall = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_sentiment_quota_shortfall",
			Help:    "Passages still missing when the sentiment phase stopped",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 45},
		},
	)

	InsufficientDataTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_insufficient_data_total",
			Help: "Requests whose sentiment phase had no data to work with",
		},
	)

	// Search Backend Metrics
	SearchQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_query_duration_seconds",
			Help:    "Duration of search backend queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "search", "aggregate"
	)

	SearchQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_query_errors_total",
			Help: "Total number of failed search backend queries",
		},
		[]string{"operation", "error_type"},
	)

	MalformedCandidatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_malformed_candidates_total",
			Help: "Search hits skipped because required song or passage fields were missing",
		},
	)

	SearchRateLimitWaits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the search client rate limiter",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of key-value store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed key-value store operations",
		},
		[]string{"operation", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"cache", "result"}, // result: "hit", "miss"
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"cache"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// errorType buckets an error into a low-cardinality label value.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}

// RecordRecommendRequest records the outcome and latency of one request.
func RecordRecommendRequest(status string, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(status).Inc()
	RecommendRequestDuration.Observe(duration.Seconds())
}

// RecordPhase records the duration of one recommendation phase.
func RecordPhase(phase string, duration time.Duration) {
	RecommendPhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordResults adds per-type result counts.
func RecordResults(countsByType map[string]int) {
	for typ, n := range countsByType {
		RecommendResultsTotal.WithLabelValues(typ).Add(float64(n))
	}
}

// RecordSentimentLoop records how many rounds the sentiment phase ran and
// how far short of its quotas it stopped.
func RecordSentimentLoop(iterations, shortfall int) {
	SentimentLoopIterations.Observe(float64(iterations))
	SentimentQuotaShortfall.Observe(float64(shortfall))
}

// RecordSearchQuery records a search backend query metric
func RecordSearchQuery(operation string, duration time.Duration, err error) {
	SearchQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		SearchQueryErrors.WithLabelValues(operation, errorType(err)).Inc()
	}
}

// RecordMalformedCandidate counts a skipped search hit.
func RecordMalformedCandidate() {
	MalformedCandidatesTotal.Inc()
}

// RecordStoreOperation records a key-value store operation metric
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation, errorType(err)).Inc()
	}
}

// RecordCacheLookup records hits and misses of one batched cache lookup.
func RecordCacheLookup(cache string, hits, misses, size int) {
	if hits > 0 {
		CacheLookupsTotal.WithLabelValues(cache, "hit").Add(float64(hits))
	}
	if misses > 0 {
		CacheLookupsTotal.WithLabelValues(cache, "miss").Add(float64(misses))
	}
	CacheEntries.WithLabelValues(cache).Set(float64(size))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
