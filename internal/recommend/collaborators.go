// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"context"
	"math"
)

// Searcher is the scored-search backend. Implementations translate the typed
// request into their own query language but must honor the boost semantics:
// boosts are summed (score_mode=sum) and combined with base relevance either
// additively (BoostModeSum) or not at all (BoostModeReplace).
type Searcher interface {
	// Search returns up to req.Size hits ordered by descending score.
	Search(ctx context.Context, req SearchRequest) ([]Hit, error)

	// Aggregate groups matching documents by req.GroupBy and returns the
	// document count and summed relevance per bucket.
	Aggregate(ctx context.Context, req AggregateRequest) (map[string]AggregateBucket, error)
}

// ImpressionStore returns what a user has already been shown.
// Ids are ordered oldest-seen first.
type ImpressionStore interface {
	GetImpressions(ctx context.Context, userID, key string) ([]string, error)
}

// HistoryStore returns a user's listening history.
type HistoryStore interface {
	GetListeningHistory(ctx context.Context, userID string) (*ListeningHistory, error)
}

// ArtistDirectory resolves artist ids to featured-artist metadata.
// Unknown ids are omitted from the result.
type ArtistDirectory interface {
	GetArtists(ctx context.Context, ids []string) ([]ArtistProfile, error)
}

// Impression store keys.
const (
	ImpressionKeySongs    = "songs"
	ImpressionKeyPassages = "passages"
	ImpressionKeyGroups   = "groups"
)

// Index document fields referenced by queries.
const (
	FieldSongID            = "id"
	FieldArtistID          = "artists.id"
	FieldPassageSentiments = "passages.sentiments"
	FieldPopularity        = "popularity"
	FieldLyrics            = "passages.lyrics"
)

// BoostMode controls how function boosts combine with base relevance.
type BoostMode string

// Boost modes.
const (
	BoostModeSum     BoostMode = "sum"
	BoostModeReplace BoostMode = "replace"
)

// Filter restricts which documents match. Empty fields impose no constraint.
type Filter struct {
	// SongIDs limits matches to these song ids.
	SongIDs []string `json:"song_ids,omitempty"`

	// ArtistIDs limits matches to songs credited to any of these artists.
	ArtistIDs []string `json:"artist_ids,omitempty"`

	// Sentiments limits matches to songs with a passage carrying any of these.
	Sentiments []string `json:"sentiments,omitempty"`

	// ExcludeSongIDs removes these song ids (must-not ids).
	ExcludeSongIDs []string `json:"exclude_song_ids,omitempty"`

	// ExcludeArtistIDs removes songs credited to any of these artists.
	ExcludeArtistIDs []string `json:"exclude_artist_ids,omitempty"`
}

// Boost adds Weight to the score of every document whose Field holds any of
// Values. With Negate set, the boost applies to documents that do not.
type Boost struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
	Negate bool     `json:"negate,omitempty"`
	Weight float64  `json:"weight"`
}

// PopularityBoost adds Weight*log1p(Factor*popularity) to every document.
type PopularityBoost struct {
	Field  string  `json:"field"`
	Factor float64 `json:"factor"`
	Weight float64 `json:"weight"`
}

// Value evaluates the boost for a popularity value. Negative popularity is
// treated as zero.
func (p PopularityBoost) Value(popularity float64) float64 {
	if popularity < 0 {
		popularity = 0
	}
	return p.Weight * math.Log1p(p.Factor*popularity)
}

// SearchRequest is a typed scored-search query.
type SearchRequest struct {
	Index      string           `json:"index"`
	Filter     Filter           `json:"filter"`
	Boosts     []Boost          `json:"boosts,omitempty"`
	Popularity *PopularityBoost `json:"popularity,omitempty"`
	BoostMode  BoostMode        `json:"boost_mode"`

	// RandomSeed, when set, replaces relevance with a seeded random score
	// so that the result is a random sample of the matching documents.
	RandomSeed *int64 `json:"random_seed,omitempty"`

	// Text is an optional free-text query over passage lyrics.
	Text string `json:"text,omitempty"`

	Size int `json:"size"`
}

// AggregateRequest is a bucketed aggregation query.
type AggregateRequest struct {
	Index      string           `json:"index"`
	Filter     Filter           `json:"filter"`
	Boosts     []Boost          `json:"boosts,omitempty"`
	Popularity *PopularityBoost `json:"popularity,omitempty"`
	BoostMode  BoostMode        `json:"boost_mode"`
	GroupBy    string           `json:"group_by"`
}

// Hit is one scored document returned by a Searcher.
type Hit struct {
	ID    string      `json:"id"`
	Score float64     `json:"score"`
	Song  IndexedSong `json:"song"`
}

// AggregateBucket is one aggregation bucket.
type AggregateBucket struct {
	Count      int     `json:"count"`
	TotalScore float64 `json:"total_score"`
}
