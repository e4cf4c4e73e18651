// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package search

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/moodlyrics/internal/recommend"
)

func song(id, artist string, popularity float64, passages ...recommend.LabeledPassage) recommend.IndexedSong {
	return recommend.IndexedSong{
		ID:         id,
		Name:       "Song " + id,
		Artists:    []recommend.Artist{{ID: artist, Name: "Artist " + artist}},
		Popularity: popularity,
		Passages:   passages,
	}
}

func testIndex() *MemoryIndex {
	return NewMemoryIndex(
		song("s1", "a1", 10, recommend.NewLabeledPassage("fire in my veins", "euphoria", "energy")),
		song("s2", "a1", 90, recommend.NewLabeledPassage("cold and alone", "pain")),
		song("s3", "a2", 50,
			recommend.NewLabeledPassage("burning fire tonight", "energy"),
			recommend.NewLabeledPassage("I miss you", "longing", "pain")),
		song("s4", "a3", 0, recommend.NewLabeledPassage("quiet morning", "clarity")),
	)
}

func hitIDs(hits []recommend.Hit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

func TestMemoryIndex_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter recommend.Filter
		want   []string
	}{
		{"no filter", recommend.Filter{}, []string{"s1", "s2", "s3", "s4"}},
		{"song ids", recommend.Filter{SongIDs: []string{"s3", "s1"}}, []string{"s1", "s3"}},
		{"artist ids", recommend.Filter{ArtistIDs: []string{"a1"}}, []string{"s1", "s2"}},
		{"sentiments", recommend.Filter{Sentiments: []string{"pain"}}, []string{"s2", "s3"}},
		{"exclude songs", recommend.Filter{ExcludeSongIDs: []string{"s1", "s2"}}, []string{"s3", "s4"}},
		{"exclude artists", recommend.Filter{ExcludeArtistIDs: []string{"a1", "a2"}}, []string{"s4"}},
		{"combined", recommend.Filter{Sentiments: []string{"energy"}, ExcludeArtistIDs: []string{"a2"}}, []string{"s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := testIndex().Search(context.Background(), recommend.SearchRequest{Filter: tt.filter, Size: 10})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			// Equal base scores sort by id.
			if got := hitIDs(hits); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMemoryIndex_BoostModes(t *testing.T) {
	t.Parallel()

	boosts := []recommend.Boost{
		{Field: recommend.FieldArtistID, Values: []string{"a2"}, Weight: 8},
		{Field: recommend.FieldSongID, Values: []string{"s1"}, Negate: true, Weight: 2},
	}

	t.Run("sum adds base relevance", func(t *testing.T) {
		hits, err := testIndex().Search(context.Background(), recommend.SearchRequest{Boosts: boosts, Size: 4})
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]float64{"s3": 11, "s2": 3, "s4": 3, "s1": 1}
		for _, h := range hits {
			if h.Score != want[h.ID] {
				t.Errorf("%s score = %v, want %v", h.ID, h.Score, want[h.ID])
			}
		}
		if hits[0].ID != "s3" || hits[3].ID != "s1" {
			t.Errorf("order = %v", hitIDs(hits))
		}
	})

	t.Run("replace drops base relevance", func(t *testing.T) {
		hits, err := testIndex().Search(context.Background(), recommend.SearchRequest{
			Boosts: boosts, BoostMode: recommend.BoostModeReplace, Size: 4,
		})
		if err != nil {
			t.Fatal(err)
		}
		if hits[0].Score != 10 || hits[3].Score != 0 {
			t.Errorf("scores = %v/%v, want 10/0", hits[0].Score, hits[3].Score)
		}
	})
}

func TestMemoryIndex_Popularity(t *testing.T) {
	t.Parallel()

	pop := &recommend.PopularityBoost{Field: recommend.FieldPopularity, Factor: (math.E - 1) / 100, Weight: 1}
	hits, err := testIndex().Search(context.Background(), recommend.SearchRequest{
		Popularity: pop, BoostMode: recommend.BoostModeReplace, Size: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := hitIDs(hits); !reflect.DeepEqual(got, []string{"s2", "s3", "s1", "s4"}) {
		t.Errorf("order = %v, want by popularity", got)
	}
	if hits[3].Score != 0 {
		t.Errorf("zero popularity scored %v", hits[3].Score)
	}
}

func TestMemoryIndex_TextRelevance(t *testing.T) {
	t.Parallel()

	hits, err := testIndex().Search(context.Background(), recommend.SearchRequest{Text: "Burning fire", Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := hitIDs(hits); !reflect.DeepEqual(got, []string{"s3", "s1"}) {
		t.Errorf("ids = %v, want [s3 s1]", got)
	}
	if hits[0].Score != 2 || hits[1].Score != 1 {
		t.Errorf("scores = %v/%v, want 2/1", hits[0].Score, hits[1].Score)
	}
}

func TestMemoryIndex_RandomSeed(t *testing.T) {
	t.Parallel()

	idx := testIndex()
	search := func(seed int64) []string {
		hits, err := idx.Search(context.Background(), recommend.SearchRequest{
			RandomSeed: &seed, BoostMode: recommend.BoostModeReplace, Size: 4,
		})
		if err != nil {
			t.Fatal(err)
		}
		return hitIDs(hits)
	}

	if a, b := search(7), search(7); !reflect.DeepEqual(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}

	orders := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		orders[fmtIDs(search(seed))] = true
	}
	if len(orders) < 2 {
		t.Error("20 seeds produced a single order")
	}
}

func fmtIDs(ids []string) string {
	out := ""
	for _, id := range ids {
		out += id + ","
	}
	return out
}

func TestRandomScore_Range(t *testing.T) {
	t.Parallel()

	for seed := int64(-5); seed < 5; seed++ {
		v := randomScore(seed, "song")
		if v < 0 || v >= 1 {
			t.Errorf("randomScore(%d) = %v, want [0,1)", seed, v)
		}
	}
}

func TestMemoryIndex_SizeLimit(t *testing.T) {
	t.Parallel()

	hits, err := testIndex().Search(context.Background(), recommend.SearchRequest{Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("len = %d, want 2", len(hits))
	}

	if _, err := testIndex().Search(context.Background(), recommend.SearchRequest{Size: -1}); err == nil {
		t.Error("negative size accepted")
	}
}

func TestMemoryIndex_Aggregate(t *testing.T) {
	t.Parallel()

	got, err := testIndex().Aggregate(context.Background(), recommend.AggregateRequest{
		GroupBy: recommend.FieldPassageSentiments,
		Boosts:  []recommend.Boost{{Field: recommend.FieldArtistID, Values: []string{"a1"}, Weight: 4}},
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	want := map[string]recommend.AggregateBucket{
		"euphoria": {Count: 1, TotalScore: 5},
		"energy":   {Count: 2, TotalScore: 6},
		"pain":     {Count: 2, TotalScore: 6},
		"longing":  {Count: 1, TotalScore: 1},
		"clarity":  {Count: 1, TotalScore: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate() = %+v, want %+v", got, want)
	}
}

func TestMemoryIndex_AggregateUnsupportedField(t *testing.T) {
	t.Parallel()

	_, err := testIndex().Aggregate(context.Background(), recommend.AggregateRequest{GroupBy: "album"})
	if err == nil {
		t.Error("expected error for unsupported group-by field")
	}
}

func TestMemoryIndex_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testIndex().Search(ctx, recommend.SearchRequest{Size: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("Search() error = %v, want context.Canceled", err)
	}
	if _, err := testIndex().Aggregate(ctx, recommend.AggregateRequest{GroupBy: recommend.FieldSongID}); !errors.Is(err, context.Canceled) {
		t.Errorf("Aggregate() error = %v, want context.Canceled", err)
	}
}

func TestMemoryIndex_PutSong(t *testing.T) {
	t.Parallel()

	idx := NewMemoryIndex()
	if err := idx.PutSong(context.Background(), recommend.IndexedSong{}); err == nil {
		t.Error("PutSong accepted a song without id")
	}
	if err := idx.PutSong(context.Background(), song("x", "a", 1)); err != nil {
		t.Fatal(err)
	}
	if err := idx.PutSong(context.Background(), song("x", "b", 1)); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after replace", idx.Len())
	}
}
