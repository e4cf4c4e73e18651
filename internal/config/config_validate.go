// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/moodlyrics/internal/validation"
)

// Validate checks the whole configuration: struct tags first, then the
// cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateProduction()
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 || c.Security.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	return nil
}

// validateProduction rejects development-only shortcuts.
func (c *Config) validateProduction() error {
	if c.Server.Environment != "production" {
		return nil
	}
	if c.Search.URL == "" {
		return errors.New("SEARCH_URL is required in production (the in-memory index is for development)")
	}
	if c.Store.InMemory {
		return errors.New("BADGER_IN_MEMORY is not allowed in production")
	}
	if c.Recommend.Seed != 0 {
		return errors.New("RECOMMEND_SEED must be unset in production")
	}
	return nil
}
