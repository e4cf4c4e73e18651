// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/recommend"
)

// maxErrorBodySize limits how much of an error response is kept.
const maxErrorBodySize = 64 * 1024

// StatusError is returned for non-2xx cluster responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// ErrRateLimited is returned when the cluster keeps answering 429.
var ErrRateLimited = errors.New("search cluster rate limit exceeded")

// Client is an OpenSearch-backed recommend.Searcher.
type Client struct {
	baseURL  string
	index    string
	username string
	password string

	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration

	logger zerolog.Logger
}

var _ recommend.Searcher = (*Client)(nil)

// NewClient creates a client for cfg.URL.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("search url is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid search url: %w", err)
	}
	if cfg.Index == "" {
		return nil, errors.New("search index is required")
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		index:          cfg.Index,
		username:       cfg.Username,
		password:       cfg.Password,
		client:         &http.Client{Timeout: cfg.Timeout},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		logger:         logger.With().Str("component", "search").Logger(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// Index returns the default index name.
func (c *Client) Index() string {
	return c.index
}

type searchHit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key        string `json:"key"`
			DocCount   int    `json:"doc_count"`
			TotalScore struct {
				Value float64 `json:"value"`
			} `json:"total_score"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

// Search runs a function_score query. Hits whose source does not decode
// into a song are skipped.
func (c *Client) Search(ctx context.Context, req recommend.SearchRequest) ([]recommend.Hit, error) {
	start := time.Now()
	var resp searchResponse
	err := c.post(ctx, c.indexFor(req.Index)+"/_search", searchBody(&req), &resp)
	metrics.RecordSearchQuery("search", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	hits := make([]recommend.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		var song recommend.IndexedSong
		if err := json.Unmarshal(h.Source, &song); err != nil {
			c.logger.Warn().Err(err).Str("hit_id", h.ID).Msg("skipping undecodable search hit")
			metrics.RecordMalformedCandidate()
			continue
		}
		if song.ID == "" {
			song.ID = h.ID
		}
		hits = append(hits, recommend.Hit{ID: h.ID, Score: h.Score, Song: song})
	}
	return hits, nil
}

// Aggregate runs a terms aggregation summing the function score per bucket.
func (c *Client) Aggregate(ctx context.Context, req recommend.AggregateRequest) (map[string]recommend.AggregateBucket, error) {
	start := time.Now()
	var resp searchResponse
	err := c.post(ctx, c.indexFor(req.Index)+"/_search", aggregateBody(&req), &resp)
	metrics.RecordSearchQuery("aggregate", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	agg := resp.Aggregations[aggName]
	out := make(map[string]recommend.AggregateBucket, len(agg.Buckets))
	for _, b := range agg.Buckets {
		out[b.Key] = recommend.AggregateBucket{Count: b.DocCount, TotalScore: b.TotalScore.Value}
	}
	return out, nil
}

// Ping checks cluster health.
func (c *Client) Ping(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/_cluster/health", nil, &health); err != nil {
		return err
	}
	if health.Status == "red" {
		return errors.New("search cluster status is red")
	}
	return nil
}

// EnsureIndex creates the songs index with its mapping if it does not exist.
func (c *Client) EnsureIndex(ctx context.Context) error {
	err := c.do(ctx, http.MethodHead, "/"+url.PathEscape(c.index), nil, nil)
	if err == nil {
		return nil
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		return err
	}
	if err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(c.index), indexMapping, nil); err != nil {
		return fmt.Errorf("failed to create index %s: %w", c.index, err)
	}
	c.logger.Info().Str("index", c.index).Msg("created search index")
	return nil
}

// PutSong indexes one song document and waits for it to become searchable.
//
//nolint:gocritic // hugeParam: song passed by value like the other Put methods
func (c *Client) PutSong(ctx context.Context, song recommend.IndexedSong) error {
	if song.ID == "" {
		return errors.New("song id is required")
	}
	path := fmt.Sprintf("/%s/_doc/%s?refresh=wait_for", url.PathEscape(c.index), url.PathEscape(song.ID))
	return c.do(ctx, http.MethodPut, path, song, nil)
}

func (c *Client) indexFor(index string) string {
	if index == "" {
		index = c.index
	}
	return "/" + url.PathEscape(index)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do sends one request, retrying 429 responses with exponential backoff or
// the server's Retry-After, and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.wait(ctx); err != nil {
			return err
		}

		resp, err := c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			if attempt >= c.maxRetries {
				return fmt.Errorf("%w after %d retries", ErrRateLimited, c.maxRetries)
			}
			delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
			if s := resp.Header.Get("Retry-After"); s != "" {
				if secs, err := strconv.Atoi(s); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return decodeResponse(resp, out)
	}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return resp, nil
}

// wait blocks on the client rate limiter and records any time spent waiting.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil || c.limiter.Allow() {
		return nil
	}
	start := time.Now()
	err := c.limiter.Wait(ctx)
	metrics.SearchRateLimitWaits.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
