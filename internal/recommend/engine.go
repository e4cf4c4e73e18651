// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

// Engine orchestrates the recommendation phases for one user at a time.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	searcher    Searcher
	history     HistoryStore
	impressions ImpressionStore
	artists     ArtistDirectory
	catalog     *sentiment.Catalog

	newRand func() RandSource

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithArtistDirectory lets the featured-artist phase derive candidates from
// the user's most played artists when the request names none.
func WithArtistDirectory(d ArtistDirectory) Option {
	return func(e *Engine) { e.artists = d }
}

// WithCatalog replaces the embedded sentiment catalog.
func WithCatalog(c *sentiment.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithRandSource overrides the per-request random source factory.
func WithRandSource(f func() RandSource) Option {
	return func(e *Engine) { e.newRand = f }
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, searcher Searcher, history HistoryStore, impressions ImpressionStore, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if history == nil {
		return nil, errors.New("history store is required")
	}
	if impressions == nil {
		return nil, errors.New("impression store is required")
	}

	e := &Engine{
		config:      cfg,
		logger:      logger.With().Str("component", "recommend").Logger(),
		searcher:    searcher,
		history:     history,
		impressions: impressions,
		catalog:     sentiment.Default(),
	}
	e.newRand = e.defaultRand
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// defaultRand seeds from the config, or from the clock when Seed is zero.
func (e *Engine) defaultRand() RandSource {
	seed := e.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // sampling, not security
}

// Stats is a snapshot of engine counters.
type Stats struct {
	RequestCount int64 `json:"request_count"`
	ErrorCount   int64 `json:"error_count"`
}

// Stats returns the current engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		RequestCount: e.requestCount.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Recommend builds one atomic recommendation batch. Any search backend
// failure aborts the request with an error matching ErrBackendQuery and no
// partial response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if err := e.validateRequest(&req); err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendRequest("invalid", time.Since(start))
		return nil, err
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	if e.config.Limits.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
		defer cancel()
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	resp, err := e.recommend(ctx, req, logger)
	if err != nil {
		e.errorCount.Add(1)
		status := "error"
		if errors.Is(err, ErrBackendQuery) {
			status = "backend_error"
		}
		metrics.RecordRecommendRequest(status, time.Since(start))
		logger.Error().Err(err).Msg("recommendation failed")
		return nil, err
	}

	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	metrics.RecordRecommendRequest("success", time.Since(start))

	logger.Debug().
		Int("returned", len(resp.Recommendations)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

func (e *Engine) validateRequest(req *Request) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if n := len(req.LookupSongIDs); n > e.config.Limits.MaxLookupIDs {
		return fmt.Errorf("%w: %d lookup ids exceeds limit %d", ErrInvalidRequest, n, e.config.Limits.MaxLookupIDs)
	}
	return nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, logger zerolog.Logger) (*Response, error) {
	loadStart := time.Now()
	state, err := e.loadUserState(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	metrics.RecordPhase("load", time.Since(loadStart))

	r := &run{
		engine: e,
		cfg:    e.config,
		req:    req,
		state:  state,
		rng:    e.newRand(),
		logger: logger,
		meta: ResponseMetadata{
			RequestID: req.RequestID,
			UserID:    req.UserID,
		},
		claimed: make(map[string]struct{}),
	}

	phases := []struct {
		name string
		run  func(context.Context) ([]pick, error)
	}{
		{"featured", r.featuredPhase},
		{"top", r.topPhase},
		{"sentiment", r.sentimentPhase},
		{"lookup", r.lookupPhase},
		{"semantic_search", r.semanticSearchPhase},
	}

	var picks []pick
	for _, p := range phases {
		phaseStart := time.Now()
		out, err := p.run(ctx)
		metrics.RecordPhase(p.name, time.Since(phaseStart))
		if err != nil {
			return nil, fmt.Errorf("%s phase: %w", p.name, err)
		}
		logger.Debug().Str("phase", p.name).Int("results", len(out)).Msg("phase complete")
		picks = append(picks, out...)
	}

	return r.buildResponse(picks), nil
}

// userState is everything loaded for a user before the phases run.
type userState struct {
	history      ListeningHistory
	seenSongs    []string
	seenPassages []string
	recentGroups []string
}

// loadUserState reads history and impressions concurrently.
func (e *Engine) loadUserState(ctx context.Context, userID string) (*userState, error) {
	st := &userState{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h, err := e.history.GetListeningHistory(gctx, userID)
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load listening history: %w", err)
		}
		if h != nil {
			st.history = *h
		}
		return nil
	})

	load := func(key string, dst *[]string) func() error {
		return func() error {
			ids, err := e.impressions.GetImpressions(gctx, userID, key)
			if errors.Is(err, ErrUserNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s impressions: %w", key, err)
			}
			*dst = ids
			return nil
		}
	}
	g.Go(load(ImpressionKeySongs, &st.seenSongs))
	g.Go(load(ImpressionKeyPassages, &st.seenPassages))
	g.Go(load(ImpressionKeyGroups, &st.recentGroups))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return st, nil
}

// pick is a search result with the tags explaining why it was chosen.
type pick struct {
	result  SearchResult
	bundles []BundleInfo
}

// run holds the mutable state of one Recommend call.
type run struct {
	engine *Engine
	cfg    *Config
	req    Request
	state  *userState
	rng    RandSource
	logger zerolog.Logger
	meta   ResponseMetadata

	featured *ArtistProfile

	// claimed holds songs already returned by an earlier phase.
	claimed map[string]struct{}
}

func (r *run) claim(picks []pick) {
	for _, p := range picks {
		r.claimed[p.result.Song.ID] = struct{}{}
	}
}

// claimedSongs returns the claimed song ids in sorted order.
func (r *run) claimedSongs() []string {
	out := make([]string, 0, len(r.claimed))
	for id := range r.claimed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// search issues one backend query, wrapping failures as backend errors and
// dropping hits without a usable song.
func (r *run) search(ctx context.Context, op string, req SearchRequest) ([]Hit, error) {
	req.Index = r.cfg.Index
	hits, err := r.engine.searcher.Search(ctx, req)
	if err != nil {
		return nil, backendError(op, err)
	}

	out := hits[:0:0]
	for _, h := range hits {
		if h.Song.ID == "" || len(h.Song.Passages) == 0 {
			r.logger.Warn().Str("op", op).Str("hit_id", h.ID).Err(ErrMalformedCandidate).Msg("skipping search hit")
			metrics.RecordMalformedCandidate()
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// resultFor builds a search result for the chosen passage of a hit.
func resultFor(h Hit, idx int, typ ResultType) SearchResult {
	return SearchResult{
		Song:         h.Song,
		Passage:      h.Song.Passages[idx],
		PassageIndex: idx,
		Score:        h.Score,
		Type:         typ,
	}
}

// buildResponse merges phase outputs by category priority, then by
// descending score.
func (r *run) buildResponse(picks []pick) *Response {
	sort.SliceStable(picks, func(i, j int) bool {
		pi, pj := typePriority[picks[i].result.Type], typePriority[picks[j].result.Type]
		if pi != pj {
			return pi < pj
		}
		return picks[i].result.Score > picks[j].result.Score
	})

	recs := make([]Recommendation, 0, len(picks))
	counts := make(map[ResultType]int)
	labels := make(map[string]int)
	for _, p := range picks {
		res := p.result
		recs = append(recs, Recommendation{
			Lyrics:      res.Passage.Lyrics,
			PassageKey:  PassageKey(res.Song.ID, res.PassageIndex),
			Song:        res.Song.Summary(),
			BundleInfos: p.bundles,
			Score:       res.Score,
			Type:        res.Type,
		})
		counts[res.Type]++
		labels[string(res.Type)]++
	}
	metrics.RecordResults(labels)

	meta := r.meta
	meta.FeaturedArtist = r.featured
	meta.CountsByType = counts
	meta.Timestamp = time.Now()

	return &Response{Recommendations: recs, Metadata: meta}
}
