// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/moodlyrics/internal/cache"
	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/recommend"
	"github.com/tomtom215/moodlyrics/internal/search"
	"github.com/tomtom215/moodlyrics/internal/store"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults
//  2. Optional YAML file (config.yaml, or CONFIG_PATH)
//  3. Environment variables
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	engine, err := recommend.NewEngine(&cfg.Recommend, searcher, st, st, logger)
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Security  SecurityConfig   `koanf:"security"`
	Search    search.Config    `koanf:"search"`
	Store     store.Config     `koanf:"store"`
	Cache     cache.Config     `koanf:"cache"`
	Recommend recommend.Config `koanf:"recommend"`
	Logging   logging.Config   `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds HTTP-facing protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"min=1"`
}
