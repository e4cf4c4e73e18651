// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Endpoints:

	GET  /api/v1/recommendations/user/{userID}?lookup=s1,s2&q=text
	POST /api/v1/recommendations
	POST /api/v1/users/{userID}/impressions
	GET  /api/v1/users/{userID}/impressions/{key}
	GET  /api/v1/sentiments[?group=heart]
	GET  /api/v1/stats
	GET  /api/v1/health, /api/v1/health/live, /api/v1/health/ready
	GET  /metrics

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "...", "details": {...}}, "meta": {...}}

Engine failures map onto statuses in respondEngineError: invalid requests
are 400, backend query failures 502, an open circuit breaker or a rate
limited cluster 503, and an expired request deadline 504.

Rate limiting uses go-chi/httprate per client IP, CORS uses go-chi/cors,
and request bodies are decoded with goccy/go-json and validated with
go-playground/validator.
*/
package api
