// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"
)

// DependencyStatus is the result of one readiness probe.
type DependencyStatus struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus is the body of /api/v1/health.
type HealthStatus struct {
	Status       string             `json:"status"`
	Version      string             `json:"version"`
	GoVersion    string             `json:"go_version"`
	Uptime       float64            `json:"uptime_seconds"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// HealthLive handles GET /api/v1/health/live. It reports the process as
// alive regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. It returns 503 unless every
// registered dependency answers its ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	deps := h.probe(r.Context())
	for _, d := range deps {
		if !d.Healthy {
			respondErrorDetails(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
				"Dependency unavailable: "+d.Name, deps, nil)
			return
		}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"ready": true, "dependencies": deps})
}

// Health handles GET /api/v1/health with a full status report. It always
// answers 200; status is "degraded" when a dependency is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	deps := h.probe(r.Context())
	status := "healthy"
	for _, d := range deps {
		if !d.Healthy {
			status = "degraded"
			break
		}
	}

	respondJSON(w, r, http.StatusOK, HealthStatus{
		Status:       status,
		Version:      h.version,
		GoVersion:    runtime.Version(),
		Uptime:       time.Since(h.startTime).Seconds(),
		Dependencies: deps,
	})
}

// Stats handles GET /api/v1/stats: engine counters and, when a performance
// monitor is attached, per-endpoint latency percentiles.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"engine": h.engine.Stats(),
	}
	if h.perfMon != nil {
		data["endpoints"] = h.perfMon.GetStats()
	}
	respondJSON(w, r, http.StatusOK, data)
}

// probe pings every dependency concurrently, each under healthTimeout.
func (h *Handler) probe(ctx context.Context) []DependencyStatus {
	results := make([]DependencyStatus, len(h.checks))
	var wg sync.WaitGroup
	for i, check := range h.checks {
		wg.Add(1)
		go func(i int, check HealthCheck) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, h.healthTimeout)
			defer cancel()

			start := time.Now()
			err := check.Pinger.Ping(pctx)
			results[i] = DependencyStatus{
				Name:      check.Name,
				Healthy:   err == nil,
				LatencyMS: time.Since(start).Milliseconds(),
			}
			if err != nil {
				results[i].Error = err.Error()
			}
		}(i, check)
	}
	wg.Wait()
	return results
}
