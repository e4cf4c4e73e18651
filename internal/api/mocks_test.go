// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodlyrics/internal/recommend"
)

type fakeEngine struct {
	mu      sync.Mutex
	resp    *recommend.Response
	err     error
	lastReq recommend.Request
	calls   int
}

func (f *fakeEngine) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &recommend.Response{
		Recommendations: []recommend.Recommendation{{
			Lyrics:     "hold on",
			PassageKey: "s1:0",
			Type:       recommend.TypeTop,
		}},
		Metadata: recommend.ResponseMetadata{RequestID: req.RequestID, UserID: req.UserID},
	}, nil
}

func (f *fakeEngine) Stats() recommend.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return recommend.Stats{RequestCount: int64(f.calls)}
}

type fakeImpressions struct {
	mu   sync.Mutex
	data map[string][]string
	err  error
}

func newFakeImpressions() *fakeImpressions {
	return &fakeImpressions{data: make(map[string][]string)}
}

func (f *fakeImpressions) GetImpressions(_ context.Context, userID, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.data[userID+"/"+key], nil
}

func (f *fakeImpressions) AppendImpressions(_ context.Context, userID, key string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[userID+"/"+key] = append(f.data[userID+"/"+key], ids...)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// envelope mirrors APIResponse with a raw data payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    APIMeta         `json:"meta"`
}

func newTestServer(t *testing.T, engine Recommender, impressions ImpressionRecorder, cfg *ChiMiddlewareConfig, opts ...HandlerOption) http.Handler {
	t.Helper()
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
		cfg.RateLimitDisabled = true
	}
	handler := NewHandler(engine, impressions, opts...)
	return NewRouter(handler, NewChiMiddleware(cfg)).SetupChi()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}
