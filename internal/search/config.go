// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package search

import "time"

// Config configures the OpenSearch client.
type Config struct {
	// URL is the cluster base URL. Empty selects the in-memory index.
	URL string `koanf:"url" validate:"omitempty,url"`

	// Index is the songs index name.
	Index string `koanf:"index" validate:"required"`

	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`

	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
	Burst     int     `koanf:"burst" validate:"min=0"`

	// MaxRetries is how often a 429 response is retried.
	MaxRetries     int           `koanf:"max_retries" validate:"min=0"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay" validate:"min=0"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker wrapped around the searcher.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the closed-state window after which counts reset.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`

	// MinRequests and FailureRatio decide when the breaker trips.
	MinRequests  uint32  `koanf:"min_requests"`
	FailureRatio float64 `koanf:"failure_ratio" validate:"min=0,max=1"`
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		Index:          "songs",
		Timeout:        5 * time.Second,
		RateLimit:      50,
		Burst:          100,
		MaxRetries:     2,
		RetryBaseDelay: 200 * time.Millisecond,
		Breaker:        DefaultBreakerConfig(),
	}
}

// DefaultBreakerConfig trips after 10 requests at a 60% failure rate and
// probes again after a minute.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:      true,
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}
