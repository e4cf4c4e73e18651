// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package search implements recommend.Searcher.
//
// Client talks to an OpenSearch (or Elasticsearch 7 compatible) cluster and
// renders typed search requests as function_score queries:
//
//   - filters become bool filter / must_not terms clauses
//   - every boost becomes a weighted terms function, negated boosts wrap the
//     terms clause in bool.must_not
//   - the popularity boost is a log1p field_value_factor function
//   - score_mode is always sum; boost_mode is sum or replace
//
// MemoryIndex evaluates the same semantics in process and backs tests, local
// development and the `recommend` CLI command when no cluster is configured.
//
// Breaker wraps any Searcher with a gobreaker circuit breaker so that a sick
// cluster fails requests fast instead of holding every request open until
// its deadline.
package search
