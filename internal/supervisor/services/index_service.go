// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/metrics"
)

// IndexManager creates the song index when it is missing.
// *search.Client satisfies it.
type IndexManager interface {
	EnsureIndex(ctx context.Context) error
	Ping(ctx context.Context) error
}

// IndexService makes sure the search index exists, then keeps probing the
// cluster so the breaker and readiness metrics reflect reality.
//
// EnsureIndex failures return an error, letting the supervisor restart the
// service with backoff until the cluster comes up.
type IndexService struct {
	index    IndexManager
	interval time.Duration
	logger   zerolog.Logger
}

// NewIndexService creates the service. interval <= 0 disables the periodic
// probe after the index is ensured.
func NewIndexService(index IndexManager, interval time.Duration) *IndexService {
	return &IndexService{
		index:    index,
		interval: interval,
		logger:   logging.WithComponent("search-index"),
	}
}

// Serve implements suture.Service.
func (s *IndexService) Serve(ctx context.Context) error {
	start := time.Now()
	err := s.index.EnsureIndex(ctx)
	metrics.RecordSearchQuery("ensure_index", time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ensure search index: %w", err)
	}
	s.logger.Info().Msg("Search index ready")

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.index.Ping(ctx)
			switch {
			case err != nil && healthy:
				s.logger.Warn().Err(err).Msg("Search cluster unhealthy")
			case err == nil && !healthy:
				s.logger.Info().Msg("Search cluster recovered")
			}
			healthy = err == nil
		}
	}
}

// String implements fmt.Stringer.
func (s *IndexService) String() string {
	return "search-index"
}
