// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package recommend selects sentiment-tagged lyric passages to show a user.
//
// # Architecture
//
// The engine runs five phases per request and merges their output:
//
//   - Featured artist: a random sample of one qualifying artist's passages
//   - Top passages: the songs the user plays most, weighted by recency
//   - Sentiment: passages for today's target sentiments, filled by a bounded
//     search-refine loop with per-artist and per-sentiment quotas
//   - Lookup: specific songs the caller asked for
//   - Semantic search: a free-text lyric query
//
// The building blocks are usable on their own:
//
//   - BuildBoosts turns time-bucketed listens into exponentially weighted
//     boost tiers, where every tier outweighs all tiers below it combined
//   - ChooseK samples distinct keys from a weighted distribution
//   - SelectBestPassage ranks a song's passages by sentiment match and length
//   - SelectSentimentGroups draws today's sentiment groups under positivity
//     constraints
//
// # Collaborators
//
// The search index and the user stores sit behind the Searcher,
// HistoryStore, ImpressionStore and ArtistDirectory interfaces. This package
// never imports a concrete backend; see internal/search and internal/store.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, searcher, store, store, logger,
//	    recommend.WithArtistDirectory(store))
//	if err != nil {
//	    return err
//	}
//
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: "u1"})
//	if errors.Is(err, recommend.ErrBackendQuery) {
//	    // the caller may retry the whole request
//	}
//
// # Thread Safety
//
// The engine is safe for concurrent use. Each request builds its own boost
// tiers, quota counters and random source; nothing is shared between
// requests.
package recommend
