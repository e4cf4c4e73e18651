// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"math"
)

// Boost tier names, in weight priority order.
const (
	TierSongYesterday           = "song_yesterday"
	TierSongLastWeek            = "song_last_week"
	TierSongLongerAgo           = "song_longer_ago"
	TierVeryFrequentSongs       = "very_frequent_songs"
	TierVeryFrequentArtists     = "very_frequent_artists"
	TierFrequentSongs           = "frequent_songs"
	TierFrequentArtists         = "frequent_artists"
	TierSlightlyFrequentSongs   = "slightly_frequent_songs"
	TierSlightlyFrequentArtists = "slightly_frequent_artists"
	TierArtistYesterday         = "artist_yesterday"
	TierArtistLastWeek          = "artist_last_week"
	TierArtistLongerAgo         = "artist_longer_ago"
)

// maxPopularity is the upper bound of the index popularity field.
const maxPopularity = 100.0

// FrequencyThresholds are the strict lower bounds on raw play counts for the
// three frequency tiers.
type FrequencyThresholds struct {
	VeryFrequent     int `json:"very_frequent" koanf:"very_frequent"`
	Frequent         int `json:"frequent" koanf:"frequent"`
	SlightlyFrequent int `json:"slightly_frequent" koanf:"slightly_frequent"`
}

// Default frequency thresholds. Artists tolerate more repeats than songs
// before they count as frequent.
var (
	DefaultSongThresholds   = FrequencyThresholds{VeryFrequent: 10, Frequent: 3, SlightlyFrequent: 1}
	DefaultArtistThresholds = FrequencyThresholds{VeryFrequent: 25, Frequent: 10, SlightlyFrequent: 5}
)

// BoostTier is one priority bucket of ids sharing a weight.
type BoostTier struct {
	Name   string   `json:"name"`
	Field  string   `json:"field"`
	IDs    []string `json:"ids"`
	Weight float64  `json:"weight"`
}

// BoostSpec is the layered set of weighted filters built from a user's
// listening history.
type BoostSpec struct {
	// Tiers holds the non-empty tiers, highest weight first. Every tier
	// outweighs the sum of all tiers below it.
	Tiers []BoostTier `json:"tiers"`

	// Popularity breaks ties only; its maximum is below the smallest tier.
	Popularity PopularityBoost `json:"popularity"`

	// MaxBoost outranks every combination of tiers.
	MaxBoost float64 `json:"max_boost"`
}

// Tier returns the named tier if it is present.
func (b *BoostSpec) Tier(name string) (BoostTier, bool) {
	for _, t := range b.Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return BoostTier{}, false
}

// Boosts converts the tiers into search boosts.
func (b *BoostSpec) Boosts() []Boost {
	out := make([]Boost, 0, len(b.Tiers))
	for _, t := range b.Tiers {
		out = append(out, Boost{Field: t.Field, Values: t.IDs, Weight: t.Weight})
	}
	return out
}

// BuildBoosts builds the boost spec for a user's recent listens using the
// default frequency thresholds. It is a pure function.
func BuildBoosts(listens RecentListens) BoostSpec {
	return BuildBoostsWith(listens, DefaultSongThresholds, DefaultArtistThresholds)
}

// BuildBoostsWith is BuildBoosts with explicit frequency thresholds.
func BuildBoostsWith(listens RecentListens, songT, artistT FrequencyThresholds) BoostSpec {
	songs := func(l Listens) []string { return l.Songs }
	artists := func(l Listens) []string { return l.Artists }

	songYesterday, songLastWeek, songLonger := recencyTiers(listens, songs)
	artistYesterday, artistLastWeek, artistLonger := recencyTiers(listens, artists)
	vfSongs, fSongs, sfSongs := frequencyTiers(listens, songs, songT)
	vfArtists, fArtists, sfArtists := frequencyTiers(listens, artists, artistT)

	candidates := []BoostTier{
		{Name: TierSongYesterday, Field: FieldSongID, IDs: songYesterday},
		{Name: TierSongLastWeek, Field: FieldSongID, IDs: songLastWeek},
		{Name: TierSongLongerAgo, Field: FieldSongID, IDs: songLonger},
		{Name: TierVeryFrequentSongs, Field: FieldSongID, IDs: vfSongs},
		{Name: TierVeryFrequentArtists, Field: FieldArtistID, IDs: vfArtists},
		{Name: TierFrequentSongs, Field: FieldSongID, IDs: fSongs},
		{Name: TierFrequentArtists, Field: FieldArtistID, IDs: fArtists},
		{Name: TierSlightlyFrequentSongs, Field: FieldSongID, IDs: sfSongs},
		{Name: TierSlightlyFrequentArtists, Field: FieldArtistID, IDs: sfArtists},
		{Name: TierArtistYesterday, Field: FieldArtistID, IDs: artistYesterday},
		{Name: TierArtistLastWeek, Field: FieldArtistID, IDs: artistLastWeek},
		{Name: TierArtistLongerAgo, Field: FieldArtistID, IDs: artistLonger},
	}

	tiers := make([]BoostTier, 0, len(candidates))
	for _, t := range candidates {
		if len(t.IDs) > 0 {
			tiers = append(tiers, t)
		}
	}

	n := len(tiers)
	for p := range tiers {
		tiers[p].Weight = math.Exp2(float64(n - p))
	}

	return BoostSpec{
		Tiers: tiers,
		// log1p(factor*maxPopularity) == 1, half the smallest tier weight.
		Popularity: PopularityBoost{
			Field:  FieldPopularity,
			Factor: (math.E - 1) / maxPopularity,
			Weight: 1,
		},
		MaxBoost: math.Exp2(float64(n + 1)),
	}
}

// recencyTiers splits ids into yesterday, last week (days 2-8) and longer
// ago. An id lands only in the most recent tier it appears in.
func recencyTiers(listens RecentListens, pick func(Listens) []string) (yesterday, lastWeek, longer []string) {
	seen := make(map[string]struct{})
	take := func(ids []string) []string {
		var out []string
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		return out
	}

	yesterday = take(pick(listens[BucketYesterday]))

	var week []string
	for _, b := range lastWeekBuckets {
		week = append(week, pick(listens[b])...)
	}
	lastWeek = take(week)

	longer = take(pick(listens[BucketLongerAgo]))
	return yesterday, lastWeek, longer
}

// frequencyTiers classifies ids by raw play count across all buckets. Each
// id lands in at most one tier.
func frequencyTiers(listens RecentListens, pick func(Listens) []string, t FrequencyThresholds) (very, frequent, slightly []string) {
	counts := make(map[string]int)
	var order []string
	for _, b := range AllBuckets {
		for _, id := range pick(listens[b]) {
			if id == "" {
				continue
			}
			if counts[id] == 0 {
				order = append(order, id)
			}
			counts[id]++
		}
	}

	for _, id := range order {
		switch c := counts[id]; {
		case c > t.VeryFrequent:
			very = append(very, id)
		case c > t.Frequent:
			frequent = append(frequent, id)
		case c > t.SlightlyFrequent:
			slightly = append(slightly, id)
		}
	}
	return very, frequent, slightly
}
