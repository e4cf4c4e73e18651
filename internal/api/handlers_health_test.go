// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodlyrics/internal/middleware"
	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		checks      []HealthCheck
		wantStatus  string
		readyStatus int
	}{
		{"no dependencies", nil, "healthy", http.StatusOK},
		{"all up", []HealthCheck{{"search", fakePinger{}}, {"store", fakePinger{}}}, "healthy", http.StatusOK},
		{"search down", []HealthCheck{{"search", fakePinger{errors.New("red")}}, {"store", fakePinger{}}}, "degraded", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeEngine{}, newFakeImpressions(), nil,
				WithHealthChecks(tt.checks...), WithVersion("1.2.3"))

			rec, env := do(t, srv, http.MethodGet, "/api/v1/health", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("health status = %d", rec.Code)
			}
			var hs HealthStatus
			if err := json.Unmarshal(env.Data, &hs); err != nil {
				t.Fatal(err)
			}
			if hs.Status != tt.wantStatus || hs.Version != "1.2.3" || len(hs.Dependencies) != len(tt.checks) {
				t.Errorf("health = %+v", hs)
			}

			rec, _ = do(t, srv, http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.readyStatus {
				t.Errorf("ready status = %d, want %d", rec.Code, tt.readyStatus)
			}

			rec, _ = do(t, srv, http.MethodGet, "/api/v1/health/live", "")
			if rec.Code != http.StatusOK {
				t.Errorf("live status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestStats(t *testing.T) {
	pm := middleware.NewPerformanceMonitor(10)
	engine := &fakeEngine{}
	srv := newTestServer(t, engine, newFakeImpressions(), nil, WithPerformanceMonitor(pm))

	do(t, srv, http.MethodGet, "/api/v1/recommendations/user/u1", "")
	rec, env := do(t, srv, http.MethodGet, "/api/v1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data struct {
		Engine struct {
			RequestCount int64 `json:"request_count"`
		} `json:"engine"`
		Endpoints []middleware.EndpointStats `json:"endpoints"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Engine.RequestCount != 1 {
		t.Errorf("engine request_count = %d, want 1", data.Engine.RequestCount)
	}
	found := false
	for _, e := range data.Endpoints {
		if e.Endpoint == "GET /api/v1/recommendations/user/{userID}" {
			found = true
		}
	}
	if !found {
		t.Errorf("endpoints = %+v, want recommendation route", data.Endpoints)
	}
}

func TestSentiments(t *testing.T) {
	srv := newTestServer(t, &fakeEngine{}, newFakeImpressions(), nil)
	cat := sentiment.Default()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCount  int
	}{
		{"all", "/api/v1/sentiments", http.StatusOK, cat.Len()},
		{"one group", "/api/v1/sentiments?group=heart", http.StatusOK, len(cat.InGroup(sentiment.GroupHeart))},
		{"unknown group", "/api/v1/sentiments?group=elbow", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var data struct {
				Count int `json:"count"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatal(err)
			}
			if data.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", data.Count, tt.wantCount)
			}
		})
	}
}
