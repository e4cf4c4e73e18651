// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Serve runs value-log garbage collection every GCInterval until ctx is
// done. It implements suture.Service.
func (s *Store) Serve(ctx context.Context) error {
	if s.config.InMemory || s.config.GCInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runGC()
		}
	}
}

// String names the service in supervisor logs.
func (s *Store) String() string {
	return "store-gc"
}

// runGC collects until Badger reports nothing left to rewrite.
func (s *Store) runGC() {
	start := time.Now()
	rewrites := 0
	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if err == nil {
			rewrites++
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
			s.logger.Warn().Err(err).Msg("value log GC failed")
		}
		break
	}
	s.logger.Debug().Int("rewrites", rewrites).Dur("duration", time.Since(start)).Msg("value log GC finished")
}
