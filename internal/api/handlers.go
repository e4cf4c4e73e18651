// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"context"
	"time"

	"github.com/tomtom215/moodlyrics/internal/middleware"
	"github.com/tomtom215/moodlyrics/internal/recommend"
	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

// Recommender produces recommendation batches. *recommend.Engine satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Stats() recommend.Stats
}

// ImpressionRecorder reads and appends a user's seen ids.
// *store.Store satisfies it.
type ImpressionRecorder interface {
	recommend.ImpressionStore
	AppendImpressions(ctx context.Context, userID, key string, ids []string) error
}

// Pinger is a dependency that can report its own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one dependency probed by the readiness endpoint.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: recommendation endpoints
//   - handlers_impressions.go: impression recording
//   - handlers_catalog.go: sentiment catalog
//   - handlers_health.go: health, readiness and stats
type Handler struct {
	engine      Recommender
	impressions ImpressionRecorder
	catalog     *sentiment.Catalog
	checks      []HealthCheck
	perfMon     *middleware.PerformanceMonitor
	version     string
	startTime   time.Time

	// healthTimeout bounds each readiness probe.
	healthTimeout time.Duration
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithHealthChecks registers dependencies probed by /api/v1/health/ready.
func WithHealthChecks(checks ...HealthCheck) HandlerOption {
	return func(h *Handler) { h.checks = append(h.checks, checks...) }
}

// WithPerformanceMonitor exposes per-endpoint latency on /api/v1/stats.
func WithPerformanceMonitor(pm *middleware.PerformanceMonitor) HandlerOption {
	return func(h *Handler) { h.perfMon = pm }
}

// WithCatalog overrides the embedded sentiment catalog.
func WithCatalog(c *sentiment.Catalog) HandlerOption {
	return func(h *Handler) { h.catalog = c }
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// NewHandler creates the API handler.
//
//	handler := api.NewHandler(engine, st,
//	    api.WithHealthChecks(api.HealthCheck{Name: "search", Pinger: searcher}),
//	)
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":8470", router.SetupChi())
func NewHandler(engine Recommender, impressions ImpressionRecorder, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:        engine,
		impressions:   impressions,
		catalog:       sentiment.Default(),
		version:       "dev",
		startTime:     time.Now(),
		healthTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
