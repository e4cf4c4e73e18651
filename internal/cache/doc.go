// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package cache provides an in-process TTL LRU and the artist profile cache
// built on it.
//
// The recommendation engine resolves featured-artist candidates on every
// request; ArtistDirectory keeps recently used profiles in memory so those
// lookups skip the Badger store:
//
//	artists := cache.NewArtistDirectory(st, cfg.Cache.ArtistCapacity, cfg.Cache.ArtistTTL)
//	engine, err := recommend.NewEngine(&cfg.Recommend, searcher, st, st, logger,
//	    recommend.WithArtistDirectory(artists))
//
// Lookups are reported as cache_lookups_total{cache="artists"} and the size
// as cache_entries{cache="artists"}.
package cache
