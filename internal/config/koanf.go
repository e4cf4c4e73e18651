// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/moodlyrics/internal/cache"
	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/recommend"
	"github.com/tomtom215/moodlyrics/internal/search"
	"github.com/tomtom215/moodlyrics/internal/store"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodlyrics/config.yaml",
	"/etc/moodlyrics/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	logCfg := logging.DefaultConfig()
	logCfg.Output = nil

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8470,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			MaxBodyBytes:    1 << 20,
		},
		Search:    search.DefaultConfig(),
		Store:     store.DefaultConfig(),
		Cache:     cache.DefaultConfig(),
		Recommend: *recommend.DefaultConfig(),
		Logging:   logCfg,
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, then validates it.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SEARCH_URL -> search.url, LOG_LEVEL -> logging.level, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// The engine addresses the index the search client is configured for.
	if cfg.Search.Index != "" {
		cfg.Recommend.Index = cfg.Search.Index
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			if err := k.Set(path, parts); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"max_body_bytes":      "security.max_body_bytes",

	// Search backend
	"search_url":                "search.url",
	"search_index":              "search.index",
	"search_username":           "search.username",
	"search_password":           "search.password",
	"search_timeout":            "search.timeout",
	"search_rate_limit":         "search.rate_limit",
	"search_burst":              "search.burst",
	"search_max_retries":        "search.max_retries",
	"search_breaker_enabled":    "search.breaker.enabled",
	"search_breaker_timeout":    "search.breaker.timeout",
	"search_breaker_min_reqs":   "search.breaker.min_requests",
	"search_breaker_fail_ratio": "search.breaker.failure_ratio",

	// Store
	"badger_path":      "store.path",
	"badger_in_memory": "store.in_memory",
	"badger_sync":      "store.sync_writes",
	"impression_limit": "store.impression_limit",
	"badger_gc":        "store.gc_interval",

	// Cache
	"artist_cache_size": "cache.artist_capacity",
	"artist_cache_ttl":  "cache.artist_ttl",

	// Recommendation engine
	"recommend_seed":            "recommend.seed",
	"recommend_timeout":         "recommend.limits.request_timeout",
	"recommend_max_lookup":      "recommend.limits.max_lookup_ids",
	"recommend_search_size":     "recommend.limits.search_size",
	"recommend_artist_cap":      "recommend.sentiment.artist_cap",
	"recommend_quota":           "recommend.sentiment.quota",
	"recommend_max_iterations":  "recommend.sentiment.max_iterations",
	"recommend_recent_groups":   "recommend.sentiment.recent_groups_window",
	"recommend_top_count":       "recommend.top.count",
	"recommend_featured_sample": "recommend.featured.sample_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
