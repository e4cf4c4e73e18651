// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package services adapts long-running components to suture.Service.
//
//   - HTTPServerService: the API server, with graceful shutdown
//   - IndexService: creates the OpenSearch index and probes cluster health
//
// The Badger store implements suture.Service itself (value log GC) and is
// added to the data layer directly.
package services
