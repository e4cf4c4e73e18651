// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

// Bucket is a time bucket key of a user's listening history.
type Bucket string

// Listening history buckets, most recent first.
const (
	BucketYesterday Bucket = "yesterday"
	BucketDaysAgo2  Bucket = "daysago-2"
	BucketDaysAgo3  Bucket = "daysago-3"
	BucketDaysAgo4  Bucket = "daysago-4"
	BucketDaysAgo5  Bucket = "daysago-5"
	BucketDaysAgo6  Bucket = "daysago-6"
	BucketDaysAgo7  Bucket = "daysago-7"
	BucketDaysAgo8  Bucket = "daysago-8"
	BucketLongerAgo Bucket = "longerAgo"
)

// AllBuckets lists every bucket from most to least recent.
var AllBuckets = []Bucket{
	BucketYesterday,
	BucketDaysAgo2, BucketDaysAgo3, BucketDaysAgo4, BucketDaysAgo5,
	BucketDaysAgo6, BucketDaysAgo7, BucketDaysAgo8,
	BucketLongerAgo,
}

// lastWeekBuckets are flattened into the single "last week" recency tier.
var lastWeekBuckets = []Bucket{
	BucketDaysAgo2, BucketDaysAgo3, BucketDaysAgo4, BucketDaysAgo5,
	BucketDaysAgo6, BucketDaysAgo7, BucketDaysAgo8,
}

// Listens holds the song and artist ids played within one bucket.
// Order is listen order and duplicates count as separate plays.
type Listens struct {
	Songs   []string `json:"songs"`
	Artists []string `json:"artists"`
}

// RecentListens maps time buckets to the plays that fell into them.
type RecentListens map[Bucket]Listens

// Empty reports whether no bucket contains a play.
func (r RecentListens) Empty() bool {
	for _, l := range r {
		if len(l.Songs) > 0 || len(l.Artists) > 0 {
			return false
		}
	}
	return true
}

// ListeningHistory is everything the history collaborator knows about a user.
type ListeningHistory struct {
	// Recent is the time-bucketed play history.
	Recent RecentListens `json:"recent"`

	// TopSongs is the user's explicitly known top-song list, best first.
	TopSongs []string `json:"top_songs,omitempty"`
}

// ResultType classifies where a recommendation came from.
type ResultType string

// Result types in merge priority order.
const (
	TypeTop            ResultType = "top"
	TypeArtist         ResultType = "artist"
	TypeSentiment      ResultType = "sentiment"
	TypeLookup         ResultType = "lookup"
	TypeSemanticSearch ResultType = "semantic_search"
)

// typePriority orders categories when merging phase outputs.
var typePriority = map[ResultType]int{
	TypeTop:            0,
	TypeArtist:         1,
	TypeSentiment:      2,
	TypeLookup:         3,
	TypeSemanticSearch: 4,
}

// Artist is a denormalized artist reference on an indexed song.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IndexedSong is a song document as stored in the search index.
type IndexedSong struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Artists    []Artist         `json:"artists"`
	Album      string           `json:"album,omitempty"`
	Popularity float64          `json:"popularity"`
	ImageURL   string           `json:"image_url,omitempty"`
	PreviewURL string           `json:"preview_url,omitempty"`
	Passages   []LabeledPassage `json:"passages"`
}

// PrimaryArtist returns the first credited artist.
func (s *IndexedSong) PrimaryArtist() Artist {
	if len(s.Artists) == 0 {
		return Artist{}
	}
	return s.Artists[0]
}

// Summary returns the subset of song fields copied onto recommendations.
func (s *IndexedSong) Summary() SongSummary {
	return SongSummary{
		ID:         s.ID,
		Name:       s.Name,
		Artists:    s.Artists,
		Album:      s.Album,
		ImageURL:   s.ImageURL,
		PreviewURL: s.PreviewURL,
	}
}

// SongSummary is the denormalized song data carried by a Recommendation.
type SongSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      string   `json:"album,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	PreviewURL string   `json:"preview_url,omitempty"`
}

// wrapWidth is the character width at which a lyric line is assumed to wrap
// on a phone screen.
const wrapWidth = 35

// PassageMetadata describes the rendered shape of a passage.
type PassageMetadata struct {
	NumLines          int   `json:"num_lines"`
	NumCharsPerLine   []int `json:"num_chars_per_line"`
	NumEffectiveLines int   `json:"num_effective_lines"`
}

// LabeledPassage is a lyric excerpt with its sentiment labels.
type LabeledPassage struct {
	Lyrics     string          `json:"lyrics"`
	Sentiments []string        `json:"sentiments"`
	Metadata   PassageMetadata `json:"metadata"`
}

// NewLabeledPassage builds a passage and derives its metadata from the lyrics.
func NewLabeledPassage(lyrics string, sentiments ...string) LabeledPassage {
	return LabeledPassage{
		Lyrics:     lyrics,
		Sentiments: sentiments,
		Metadata:   ComputePassageMetadata(lyrics),
	}
}

// ComputePassageMetadata counts lines and effective (wrapped) lines.
func ComputePassageMetadata(lyrics string) PassageMetadata {
	lines := strings.Split(strings.TrimRight(lyrics, "\n"), "\n")
	if lyrics == "" {
		lines = nil
	}

	md := PassageMetadata{
		NumLines:        len(lines),
		NumCharsPerLine: make([]int, len(lines)),
	}
	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		md.NumCharsPerLine[i] = n
		md.NumEffectiveLines += int(math.Ceil(float64(n) / wrapWidth))
	}
	return md
}

// HasAnySentiment reports whether the passage carries at least one of targets.
func (p *LabeledPassage) HasAnySentiment(targets map[string]struct{}) bool {
	for _, s := range p.Sentiments {
		if _, ok := targets[s]; ok {
			return true
		}
	}
	return false
}

// PassageKey identifies a passage for impression tracking.
func PassageKey(songID string, index int) string {
	return fmt.Sprintf("%s:%d", songID, index)
}

// ScoredSentiment is a sentiment with its aggregate statistics for one user.
type ScoredSentiment struct {
	Sentiment sentiment.Sentiment `json:"sentiment"`
	Count     int                 `json:"count"`
	Score     float64             `json:"score"`
}

// SearchResult is one song hit with the passage chosen for it.
type SearchResult struct {
	Song         IndexedSong    `json:"song"`
	Passage      LabeledPassage `json:"passage"`
	PassageIndex int            `json:"passage_index"`
	Score        float64        `json:"score"`
	Type         ResultType     `json:"type"`
}

// BundleInfo is a tag explaining why a passage was chosen.
type BundleInfo struct {
	Type       ResultType `json:"type"`
	Sentiment  string     `json:"sentiment,omitempty"`
	Group      string     `json:"group,omitempty"`
	ArtistID   string     `json:"artist_id,omitempty"`
	ArtistName string     `json:"artist_name,omitempty"`
	Emoji      string     `json:"emoji,omitempty"`
	Query      string     `json:"query,omitempty"`
}

// Recommendation is the final output unit returned to callers.
type Recommendation struct {
	Lyrics      string       `json:"lyrics"`
	PassageKey  string       `json:"passage_key"`
	Song        SongSummary  `json:"song"`
	BundleInfos []BundleInfo `json:"bundle_infos"`
	Score       float64      `json:"score"`
	Type        ResultType   `json:"type"`
}

// ArtistProfile holds the metadata needed to feature an artist.
type ArtistProfile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Emoji            string `json:"emoji,omitempty"`
	IndexedSongCount int    `json:"indexed_song_count"`
}

// Request is a recommendation request for one user.
type Request struct {
	// UserID identifies the user. Required.
	UserID string `json:"user_id" validate:"required"`

	// FeaturedArtists is the ordered list of featured-artist candidates.
	// When empty, candidates are derived from the user's most played artists.
	FeaturedArtists []ArtistProfile `json:"featured_artists,omitempty"`

	// LookupSongIDs requests specific songs, returned with type "lookup".
	LookupSongIDs []string `json:"lookup_song_ids,omitempty"`

	// Query is a free-text lyric search, returned with type "semantic_search".
	Query string `json:"query,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the atomic recommendation batch for one request.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata reports what the request actually achieved.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`

	// FeaturedArtist is the artist chosen in the featured phase, if any.
	FeaturedArtist *ArtistProfile `json:"featured_artist,omitempty"`

	// SentimentGroups lists the groups drawn for today.
	SentimentGroups []string `json:"sentiment_groups,omitempty"`

	// TargetSentiments lists the sentiments the sentiment phase aimed for.
	TargetSentiments []string `json:"target_sentiments,omitempty"`

	// SentimentCounts reports passages achieved per target sentiment.
	// Quotas are best-effort and may be unmet.
	SentimentCounts map[string]int `json:"sentiment_counts,omitempty"`

	// SentimentIterations is the number of sentiment search rounds run.
	SentimentIterations int `json:"sentiment_iterations"`

	// InsufficientData is set when the sentiment phase had nothing to work with.
	InsufficientData bool `json:"insufficient_data"`

	// CountsByType reports how many recommendations each phase produced.
	CountsByType map[ResultType]int `json:"counts_by_type"`

	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}
