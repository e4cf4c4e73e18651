// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"fmt"
	"maps"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Index is the search index holding song documents.
	Index string `json:"index" koanf:"index"`

	// Featured contains parameters for the featured-artist phase.
	Featured FeaturedConfig `json:"featured" koanf:"featured"`

	// Top contains parameters for the top-passages phase.
	Top TopConfig `json:"top" koanf:"top"`

	// Sentiment contains parameters for the sentiment phase.
	Sentiment SentimentConfig `json:"sentiment" koanf:"sentiment"`

	// SongThresholds and ArtistThresholds drive the frequency boost tiers.
	SongThresholds   FrequencyThresholds `json:"song_thresholds" koanf:"song_thresholds"`
	ArtistThresholds FrequencyThresholds `json:"artist_thresholds" koanf:"artist_thresholds"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Seed seeds every per-request random source. Zero seeds from the clock,
	// which is what production wants; tests set a fixed seed.
	Seed int64 `json:"seed" koanf:"seed"`
}

// FeaturedConfig contains parameters for the featured-artist phase.
type FeaturedConfig struct {
	// MinIndexedSongs skips artists with fewer indexed songs.
	// Default: 5.
	MinIndexedSongs int `json:"min_indexed_songs" koanf:"min_indexed_songs"`

	// SampleSize is the size of the random passage sample per artist.
	// Default: 10.
	SampleSize int `json:"sample_size" koanf:"sample_size"`

	// MinResults is the number of results an artist must yield to be featured.
	// Default: 5.
	MinResults int `json:"min_results" koanf:"min_results"`

	// MaxDerivedCandidates caps how many of the user's most played artists
	// are tried when the request names none.
	// Default: 5.
	MaxDerivedCandidates int `json:"max_derived_candidates" koanf:"max_derived_candidates"`
}

// TopConfig contains parameters for the top-passages phase.
type TopConfig struct {
	// Count is the number of top results returned.
	// Default: 10.
	Count int `json:"count" koanf:"count"`

	// QuerySize is the number of candidates fetched from the backend.
	// Default: 50.
	QuerySize int `json:"query_size" koanf:"query_size"`

	// SeenDamping divides the points of songs the user was already shown.
	// Default: 8.
	SeenDamping float64 `json:"seen_damping" koanf:"seen_damping"`

	// TopSongCount is how many leading TopSongs get TopSongBoost; the rest
	// get OtherTopSongBoost.
	// Default: 10.
	TopSongCount      int     `json:"top_song_count" koanf:"top_song_count"`
	TopSongBoost      float64 `json:"top_song_boost" koanf:"top_song_boost"`
	OtherTopSongBoost float64 `json:"other_top_song_boost" koanf:"other_top_song_boost"`

	// Rewards are the points earned per listen in each bucket.
	Rewards map[Bucket]float64 `json:"rewards" koanf:"rewards"`
}

// SentimentConfig contains parameters for the sentiment phase.
type SentimentConfig struct {
	// ArtistCap is the number of passages after which an artist is depleted.
	// Default: 3.
	ArtistCap int `json:"artist_cap" koanf:"artist_cap"`

	// Quota is the number of passages after which a sentiment is satisfied.
	// Default: 5.
	Quota int `json:"quota" koanf:"quota"`

	// MaxIterations bounds the search-refine loop.
	// Default: 5.
	MaxIterations int `json:"max_iterations" koanf:"max_iterations"`

	// RecentGroupsWindow is how many recently recommended groups are
	// penalized during group selection.
	// Default: 3.
	RecentGroupsWindow int `json:"recent_groups_window" koanf:"recent_groups_window"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxLookupIDs caps Request.LookupSongIDs.
	// Default: 50.
	MaxLookupIDs int `json:"max_lookup_ids" koanf:"max_lookup_ids"`

	// SearchSize is the result size for free-text queries.
	// Default: 10.
	SearchSize int `json:"search_size" koanf:"search_size"`

	// RequestTimeout bounds a whole Recommend call. Zero disables it.
	// Default: 10s.
	RequestTimeout time.Duration `json:"request_timeout" koanf:"request_timeout"`
}

// DefaultRewards returns the per-listen reward table: 1024 for yesterday,
// 256 two days ago, halving each day after that, and 1 for anything older.
func DefaultRewards() map[Bucket]float64 {
	return map[Bucket]float64{
		BucketYesterday: 1024,
		BucketDaysAgo2:  256,
		BucketDaysAgo3:  128,
		BucketDaysAgo4:  64,
		BucketDaysAgo5:  32,
		BucketDaysAgo6:  16,
		BucketDaysAgo7:  8,
		BucketDaysAgo8:  4,
		BucketLongerAgo: 1,
	}
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Index: "songs",
		Featured: FeaturedConfig{
			MinIndexedSongs:      5,
			SampleSize:           10,
			MinResults:           5,
			MaxDerivedCandidates: 5,
		},
		Top: TopConfig{
			Count:             10,
			QuerySize:         50,
			SeenDamping:       8,
			TopSongCount:      10,
			TopSongBoost:      8192,
			OtherTopSongBoost: 2048,
			Rewards:           DefaultRewards(),
		},
		Sentiment: SentimentConfig{
			ArtistCap:          3,
			Quota:              5,
			MaxIterations:      5,
			RecentGroupsWindow: 3,
		},
		SongThresholds:   DefaultSongThresholds,
		ArtistThresholds: DefaultArtistThresholds,
		Limits: LimitsConfig{
			MaxLookupIDs:   50,
			SearchSize:     10,
			RequestTimeout: 10 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Index == "" {
		return fmt.Errorf("index must not be empty")
	}

	if c.Featured.MinIndexedSongs < 0 {
		return fmt.Errorf("featured.min_indexed_songs must be non-negative, got %d", c.Featured.MinIndexedSongs)
	}
	if c.Featured.SampleSize < 1 {
		return fmt.Errorf("featured.sample_size must be positive, got %d", c.Featured.SampleSize)
	}
	if c.Featured.MinResults > c.Featured.SampleSize {
		return fmt.Errorf("featured.min_results must be <= featured.sample_size, got %d > %d",
			c.Featured.MinResults, c.Featured.SampleSize)
	}

	if c.Top.Count < 1 {
		return fmt.Errorf("top.count must be positive, got %d", c.Top.Count)
	}
	if c.Top.QuerySize < c.Top.Count {
		return fmt.Errorf("top.query_size must be >= top.count, got %d < %d", c.Top.QuerySize, c.Top.Count)
	}
	if c.Top.SeenDamping < 1 {
		return fmt.Errorf("top.seen_damping must be >= 1, got %f", c.Top.SeenDamping)
	}
	for b, r := range c.Top.Rewards {
		if r < 0 {
			return fmt.Errorf("top.rewards[%s] must be non-negative, got %f", b, r)
		}
	}

	if c.Sentiment.ArtistCap < 1 {
		return fmt.Errorf("sentiment.artist_cap must be positive, got %d", c.Sentiment.ArtistCap)
	}
	if c.Sentiment.Quota < 1 {
		return fmt.Errorf("sentiment.quota must be positive, got %d", c.Sentiment.Quota)
	}
	if c.Sentiment.MaxIterations < 1 {
		return fmt.Errorf("sentiment.max_iterations must be positive, got %d", c.Sentiment.MaxIterations)
	}
	if c.Sentiment.RecentGroupsWindow < 0 {
		return fmt.Errorf("sentiment.recent_groups_window must be non-negative, got %d", c.Sentiment.RecentGroupsWindow)
	}

	if err := validateThresholds("song_thresholds", c.SongThresholds); err != nil {
		return err
	}
	if err := validateThresholds("artist_thresholds", c.ArtistThresholds); err != nil {
		return err
	}

	if c.Limits.MaxLookupIDs < 0 {
		return fmt.Errorf("limits.max_lookup_ids must be non-negative, got %d", c.Limits.MaxLookupIDs)
	}
	if c.Limits.SearchSize < 1 {
		return fmt.Errorf("limits.search_size must be positive, got %d", c.Limits.SearchSize)
	}
	if c.Limits.RequestTimeout < 0 {
		return fmt.Errorf("limits.request_timeout must be non-negative, got %v", c.Limits.RequestTimeout)
	}

	return nil
}

func validateThresholds(name string, t FrequencyThresholds) error {
	if t.SlightlyFrequent < 0 {
		return fmt.Errorf("%s.slightly_frequent must be non-negative, got %d", name, t.SlightlyFrequent)
	}
	if t.Frequent < t.SlightlyFrequent || t.VeryFrequent < t.Frequent {
		return fmt.Errorf("%s must be ordered very_frequent >= frequent >= slightly_frequent, got %d/%d/%d",
			name, t.VeryFrequent, t.Frequent, t.SlightlyFrequent)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Top.Rewards = maps.Clone(c.Top.Rewards)
	return &out
}

// MarshalJSON renders the request timeout as a duration string.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type limits struct {
		MaxLookupIDs   int    `json:"max_lookup_ids"`
		SearchSize     int    `json:"search_size"`
		RequestTimeout string `json:"request_timeout"`
	}
	return json.Marshal(&struct {
		*Alias
		Limits limits `json:"limits"`
	}{
		Alias: (*Alias)(c),
		Limits: limits{
			MaxLookupIDs:   c.Limits.MaxLookupIDs,
			SearchSize:     c.Limits.SearchSize,
			RequestTimeout: c.Limits.RequestTimeout.String(),
		},
	})
}
