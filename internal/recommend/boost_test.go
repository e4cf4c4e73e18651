// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"math"
	"reflect"
	"testing"
)

func repeatID(id string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = id
	}
	return out
}

func tierNames(spec BoostSpec) []string {
	out := make([]string, len(spec.Tiers))
	for i, t := range spec.Tiers {
		out[i] = t.Name
	}
	return out
}

func TestBuildBoosts_SlightlyFrequentSong(t *testing.T) {
	spec := BuildBoosts(RecentListens{
		BucketYesterday: {Songs: []string{"s1", "s1", "s1"}},
	})

	want := []string{TierSongYesterday, TierSlightlyFrequentSongs}
	if got := tierNames(spec); !reflect.DeepEqual(got, want) {
		t.Fatalf("tiers = %v, want %v", got, want)
	}
	for _, name := range []string{TierVeryFrequentSongs, TierFrequentSongs, TierSongLastWeek, TierSongLongerAgo} {
		if _, ok := spec.Tier(name); ok {
			t.Errorf("tier %s present, want absent", name)
		}
	}

	yesterday, _ := spec.Tier(TierSongYesterday)
	if !reflect.DeepEqual(yesterday.IDs, []string{"s1"}) {
		t.Errorf("yesterday ids = %v, want [s1]", yesterday.IDs)
	}
	if yesterday.Weight != 4 {
		t.Errorf("yesterday weight = %v, want 4", yesterday.Weight)
	}
	slightly, _ := spec.Tier(TierSlightlyFrequentSongs)
	if slightly.Weight != 2 {
		t.Errorf("slightly frequent weight = %v, want 2", slightly.Weight)
	}
	if spec.MaxBoost != 8 {
		t.Errorf("MaxBoost = %v, want 8", spec.MaxBoost)
	}
}

func TestBuildBoosts_VeryFrequentSong(t *testing.T) {
	spec := BuildBoosts(RecentListens{
		BucketDaysAgo3: {Songs: repeatID("s2", 12)},
	})

	vf, ok := spec.Tier(TierVeryFrequentSongs)
	if !ok || !reflect.DeepEqual(vf.IDs, []string{"s2"}) {
		t.Fatalf("very frequent tier = %+v, want [s2]", vf)
	}
	for _, name := range []string{TierFrequentSongs, TierSlightlyFrequentSongs} {
		if _, ok := spec.Tier(name); ok {
			t.Errorf("tier %s present, want absent", name)
		}
	}
	week, ok := spec.Tier(TierSongLastWeek)
	if !ok || !reflect.DeepEqual(week.IDs, []string{"s2"}) {
		t.Errorf("last week tier = %+v, want [s2]", week)
	}
}

func TestBuildBoosts_RecencyTiersDisjoint(t *testing.T) {
	listens := RecentListens{
		BucketYesterday: {Songs: []string{"a", "b"}, Artists: []string{"x"}},
		BucketDaysAgo2:  {Songs: []string{"b", "c"}, Artists: []string{"x", "y"}},
		BucketDaysAgo5:  {Songs: []string{"c", "d"}},
		BucketLongerAgo: {Songs: []string{"a", "d", "e"}, Artists: []string{"y", "z"}},
	}
	spec := BuildBoosts(listens)

	tests := []struct {
		tier string
		want []string
	}{
		{TierSongYesterday, []string{"a", "b"}},
		{TierSongLastWeek, []string{"c", "d"}},
		{TierSongLongerAgo, []string{"e"}},
		{TierArtistYesterday, []string{"x"}},
		{TierArtistLastWeek, []string{"y"}},
		{TierArtistLongerAgo, []string{"z"}},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			got, ok := spec.Tier(tt.tier)
			if !ok {
				t.Fatalf("tier %s missing", tt.tier)
			}
			if !reflect.DeepEqual(got.IDs, tt.want) {
				t.Errorf("ids = %v, want %v", got.IDs, tt.want)
			}
		})
	}

	for _, group := range [][]string{
		{TierSongYesterday, TierSongLastWeek, TierSongLongerAgo},
		{TierArtistYesterday, TierArtistLastWeek, TierArtistLongerAgo},
	} {
		seen := make(map[string]string)
		for _, name := range group {
			tier, _ := spec.Tier(name)
			for _, id := range tier.IDs {
				if prev, dup := seen[id]; dup {
					t.Errorf("id %q in both %s and %s", id, prev, name)
				}
				seen[id] = name
			}
		}
	}
}

func TestBuildBoosts_ArtistThresholds(t *testing.T) {
	var artists []string
	artists = append(artists, repeatID("vf", 26)...)
	artists = append(artists, repeatID("f", 11)...)
	artists = append(artists, repeatID("sf", 6)...)
	artists = append(artists, repeatID("none", 5)...)

	spec := BuildBoosts(RecentListens{BucketLongerAgo: {Artists: artists}})

	tests := []struct {
		tier string
		want []string
	}{
		{TierVeryFrequentArtists, []string{"vf"}},
		{TierFrequentArtists, []string{"f"}},
		{TierSlightlyFrequentArtists, []string{"sf"}},
	}
	for _, tt := range tests {
		got, ok := spec.Tier(tt.tier)
		if !ok || !reflect.DeepEqual(got.IDs, tt.want) {
			t.Errorf("tier %s = %+v, want ids %v", tt.tier, got, tt.want)
		}
	}
}

func TestBuildBoosts_FrequencyCountsSpanBuckets(t *testing.T) {
	spec := BuildBoosts(RecentListens{
		BucketYesterday: {Songs: []string{"s"}},
		BucketDaysAgo4:  {Songs: []string{"s", "s"}},
		BucketLongerAgo: {Songs: []string{"s"}},
	})

	// Four plays in total clears the "frequent" threshold of 3.
	if _, ok := spec.Tier(TierFrequentSongs); !ok {
		t.Errorf("frequent songs tier missing, tiers = %v", tierNames(spec))
	}
}

func TestBuildBoosts_TierOrderAndWeights(t *testing.T) {
	var artists []string
	artists = append(artists, repeatID("vfa", 26)...)
	artists = append(artists, repeatID("fa", 11)...)
	artists = append(artists, repeatID("sfa", 6)...)

	var songs []string
	songs = append(songs, repeatID("vfs", 11)...)
	songs = append(songs, repeatID("fs", 4)...)
	songs = append(songs, repeatID("sfs", 2)...)

	spec := BuildBoosts(RecentListens{
		BucketYesterday: {Songs: []string{"y"}, Artists: []string{"ya"}},
		BucketDaysAgo2:  {Songs: []string{"w"}, Artists: []string{"wa"}},
		BucketLongerAgo: {Songs: songs, Artists: artists},
	})

	want := []string{
		TierSongYesterday, TierSongLastWeek, TierSongLongerAgo,
		TierVeryFrequentSongs, TierVeryFrequentArtists,
		TierFrequentSongs, TierFrequentArtists,
		TierSlightlyFrequentSongs, TierSlightlyFrequentArtists,
		TierArtistYesterday, TierArtistLastWeek, TierArtistLongerAgo,
	}
	if got := tierNames(spec); !reflect.DeepEqual(got, want) {
		t.Fatalf("tiers = %v, want %v", got, want)
	}

	// Every tier must outweigh all lower tiers plus the popularity boost.
	maxPopularity := spec.Popularity.Value(100)
	for i, tier := range spec.Tiers {
		below := maxPopularity
		for _, lower := range spec.Tiers[i+1:] {
			below += lower.Weight
		}
		if tier.Weight <= below {
			t.Errorf("tier %s weight %v does not outweigh lower sum %v", tier.Name, tier.Weight, below)
		}
	}

	total := maxPopularity
	for _, tier := range spec.Tiers {
		total += tier.Weight
	}
	if spec.MaxBoost <= total {
		t.Errorf("MaxBoost %v does not outrank all tiers combined %v", spec.MaxBoost, total)
	}
	if spec.MaxBoost != math.Exp2(13) {
		t.Errorf("MaxBoost = %v, want 2^13", spec.MaxBoost)
	}
}

func TestBuildBoosts_Empty(t *testing.T) {
	spec := BuildBoosts(nil)
	if len(spec.Tiers) != 0 {
		t.Errorf("tiers = %v, want none", tierNames(spec))
	}
	if spec.MaxBoost != 2 {
		t.Errorf("MaxBoost = %v, want 2", spec.MaxBoost)
	}
	if len(spec.Boosts()) != 0 {
		t.Errorf("Boosts() = %v, want empty", spec.Boosts())
	}
}

func TestBuildBoosts_IgnoresEmptyIDs(t *testing.T) {
	spec := BuildBoosts(RecentListens{BucketYesterday: {Songs: []string{"", "s", ""}}})
	tier, ok := spec.Tier(TierSongYesterday)
	if !ok || !reflect.DeepEqual(tier.IDs, []string{"s"}) {
		t.Errorf("yesterday tier = %+v, want [s]", tier)
	}
}

func TestBuildBoostsWith_CustomThresholds(t *testing.T) {
	spec := BuildBoostsWith(
		RecentListens{BucketYesterday: {Songs: []string{"s", "s"}}},
		FrequencyThresholds{VeryFrequent: 1, Frequent: 1, SlightlyFrequent: 0},
		DefaultArtistThresholds,
	)
	if _, ok := spec.Tier(TierVeryFrequentSongs); !ok {
		t.Errorf("very frequent tier missing with threshold 1, tiers = %v", tierNames(spec))
	}
}

func TestBoostSpec_Boosts(t *testing.T) {
	spec := BuildBoosts(RecentListens{BucketYesterday: {Songs: []string{"s"}, Artists: []string{"a"}}})
	boosts := spec.Boosts()
	if len(boosts) != len(spec.Tiers) {
		t.Fatalf("len(Boosts()) = %d, want %d", len(boosts), len(spec.Tiers))
	}
	for i, b := range boosts {
		tier := spec.Tiers[i]
		if b.Field != tier.Field || b.Weight != tier.Weight || b.Negate {
			t.Errorf("boost %d = %+v, want field %s weight %v", i, b, tier.Field, tier.Weight)
		}
	}
	if boosts[0].Field != FieldSongID {
		t.Errorf("first boost field = %s, want %s", boosts[0].Field, FieldSongID)
	}
}

func TestPopularityBoost_Value(t *testing.T) {
	p := BuildBoosts(nil).Popularity

	tests := []struct {
		name       string
		popularity float64
		want       float64
	}{
		{"zero", 0, 0},
		{"negative clamps to zero", -10, 0},
		{"maximum is one", 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Value(tt.popularity); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Value(%v) = %v, want %v", tt.popularity, got, tt.want)
			}
		})
	}

	if p.Value(50) >= p.Value(80) {
		t.Error("popularity boost is not monotonic")
	}
}
