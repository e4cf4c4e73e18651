// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/moodlyrics/internal/metrics"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality
// bounded when clients probe arbitrary paths.
const unmatchedRoute = "unmatched"

// PrometheusMetrics records request count, latency and in-flight requests.
// The endpoint label is the route pattern, never the raw path, so user ids
// do not become label values.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		wrapper := newStatusWriter(w)

		next.ServeHTTP(wrapper, r)

		metrics.RecordAPIRequest(
			r.Method,
			RoutePattern(r, unmatchedRoute),
			strconv.Itoa(wrapper.statusCode),
			time.Since(start),
		)
	})
}
