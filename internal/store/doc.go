// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package store keeps per-user state in BadgerDB: listening histories,
// impressions and the featured-artist directory. Values are JSON.
//
// Key layout:
//
//	listens:{userID}                -> recommend.ListeningHistory
//	impressions:{userID}:{key}      -> []string, oldest-seen first
//	artist:{artistID}               -> recommend.ArtistProfile
//
// Store implements recommend.HistoryStore, recommend.ImpressionStore and
// recommend.ArtistDirectory. It also runs as a supervised service that
// periodically garbage-collects the value log.
package store
