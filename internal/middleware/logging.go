// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodlyrics/internal/logging"
)

// RequestLogger logs one line per request. Server errors log at warn, slow
// requests at info, everything else at debug.
func RequestLogger(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := newStatusWriter(w)

			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)
			level := zerolog.DebugLevel
			switch {
			case wrapper.statusCode >= http.StatusInternalServerError:
				level = zerolog.WarnLevel
			case slowThreshold > 0 && duration > slowThreshold:
				level = zerolog.InfoLevel
			}

			logging.Ctx(r.Context()).WithLevel(level).
				Str("method", r.Method).
				Str("route", RoutePattern(r, r.URL.Path)).
				Int("status", wrapper.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("request handled")
		})
	}
}
