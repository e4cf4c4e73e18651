// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the API server at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - recommend_requests_total: Requests by outcome (counter)
    Labels: status (success, invalid, backend_error, error)
  - recommend_request_duration_seconds: End-to-end latency (histogram)
  - recommend_phase_duration_seconds: Per-phase latency (histogram)
    Labels: phase
  - recommend_results_total: Returned recommendations (counter)
    Labels: type (top, artist, sentiment, lookup, semantic_search)
  - recommend_sentiment_loop_iterations: Search rounds per request (histogram)
  - recommend_sentiment_quota_shortfall: Passages missing at loop exit (histogram)
  - recommend_insufficient_data_total: Requests with nothing to target (counter)

Search Backend Metrics:
  - search_query_duration_seconds: Query latency (histogram)
    Labels: operation (search, aggregate)
  - search_query_errors_total: Failed queries (counter)
    Labels: operation, error_type
  - search_malformed_candidates_total: Skipped hits (counter)
  - search_rate_limit_wait_seconds: Time blocked on the client limiter (histogram)

Store Metrics:
  - store_operation_duration_seconds, store_operation_errors_total
    Labels: operation

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests,
    api_rate_limit_hits_total

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total, circuit_breaker_consecutive_failures,
    circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	hits, err := client.Search(ctx, req)
	metrics.RecordSearchQuery("search", time.Since(start), err)

Label values must stay low-cardinality. Never use user ids, song ids or raw
error strings as labels.
*/
package metrics
