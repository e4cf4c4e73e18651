// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package logging provides the process-wide zerolog logger.
//
// Call Init once from main with the configured level and format. Request
// handlers attach the request and user IDs to the context so that
//
//	logging.Ctx(ctx).Info().Msg("...")
//
// carries them on every line. SlogHandler bridges slog-only libraries such as
// sutureslog into the same stream.
//
// Environment variables (through internal/config):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
package logging
