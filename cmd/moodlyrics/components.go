// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moodlyrics/internal/api"
	"github.com/tomtom215/moodlyrics/internal/cache"
	"github.com/tomtom215/moodlyrics/internal/config"
	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/recommend"
	"github.com/tomtom215/moodlyrics/internal/search"
	"github.com/tomtom215/moodlyrics/internal/sentiment"
	"github.com/tomtom215/moodlyrics/internal/store"
)

// songWriter indexes songs. Both search backends satisfy it.
type songWriter interface {
	PutSong(ctx context.Context, song recommend.IndexedSong) error
}

// components holds everything a command needs to answer requests.
type components struct {
	store    *store.Store
	client   *search.Client // nil when the in-memory index is used
	memory   *search.MemoryIndex
	searcher recommend.Searcher
	catalog  *sentiment.Catalog
	engine   *recommend.Engine
}

// buildComponents opens the store, selects the search backend and creates
// the engine. The caller must Close the result.
func buildComponents(cmd *cobra.Command, cfg *config.Config) (*components, error) {
	logger := logging.Logger()

	catalog, err := loadCatalog(cmd)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	c := &components{store: st, catalog: catalog}

	if cfg.Search.URL != "" {
		client, err := search.NewClient(cfg.Search, logger)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("create search client: %w", err)
		}
		c.client = client
		c.searcher = client
		logging.Info().Str("url", cfg.Search.URL).Str("index", cfg.Search.Index).Msg("using OpenSearch index")
	} else {
		c.memory = search.NewMemoryIndex()
		c.searcher = c.memory
		logging.Warn().Msg("SEARCH_URL not set, using in-memory songs index")
	}

	if cfg.Search.Breaker.Enabled {
		c.searcher = search.NewBreaker("search", c.searcher, cfg.Search.Breaker, logger)
	}

	var artists recommend.ArtistDirectory = st
	if cfg.Cache.ArtistCapacity > 0 {
		artists = cache.NewArtistDirectory(st, cfg.Cache.ArtistCapacity, cfg.Cache.ArtistTTL)
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, c.searcher, st, st, logger,
		recommend.WithArtistDirectory(artists),
		recommend.WithCatalog(catalog),
	)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	c.engine = engine

	return c, nil
}

// songs returns the writer for the active songs index.
func (c *components) songs() songWriter {
	if c.client != nil {
		return c.client
	}
	return c.memory
}

// healthChecks lists the dependencies probed by /api/v1/health/ready.
func (c *components) healthChecks() []api.HealthCheck {
	checks := []api.HealthCheck{{Name: "store", Pinger: c.store}}
	if p, ok := c.searcher.(api.Pinger); ok {
		checks = append(checks, api.HealthCheck{Name: "search", Pinger: p})
	}
	return checks
}

func (c *components) Close() error {
	return c.store.Close()
}

func loadCatalog(cmd *cobra.Command) (*sentiment.Catalog, error) {
	path, _ := cmd.Flags().GetString("sentiments")
	if path == "" {
		return sentiment.Default(), nil
	}

	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("open sentiment catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	catalog, err := sentiment.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load sentiment catalog %s: %w", path, err)
	}
	logging.Info().Str("path", path).Int("sentiments", catalog.Len()).Msg("sentiment catalog loaded")
	return catalog, nil
}

// errNoIndex is returned when songs must be indexed but nothing would keep them.
var errNoIndex = errors.New("SEARCH_URL is required: the in-memory index does not outlive this command")
