// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

/*
Package middleware provides the HTTP middleware shared by the API router.

  - RequestID: accepts or generates X-Request-ID and stores it in the
    logging context, so logging.Ctx(ctx) tags every line with request_id
  - RequestLogger: one structured log line per request
  - PrometheusMetrics: api_requests_total, api_request_duration_seconds and
    api_active_requests, labeled by chi route pattern
  - PerformanceMonitor: sliding-window latency percentiles per endpoint

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
*/
package middleware
