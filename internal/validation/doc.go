// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package validation wraps go-playground/validator with a shared instance,
// JSON field names in errors and readable messages.
//
// Besides the built-in tags it registers:
//
//	storekey  non-empty, at most 128 characters, no whitespace or ':'
//
// User, song and artist ids are embedded in colon-separated Badger keys, so
// API handlers validate them with storekey before they reach the store.
package validation
