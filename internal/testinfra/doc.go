// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package testinfra starts Docker containers for integration tests.
//
// Everything here is behind the `integration` build tag:
//
//	go test -tags integration ./internal/search/...
//
// Tests call SkipIfNoDocker first so that machines without Docker skip
// instead of failing.
package testinfra
