// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodlyrics/internal/recommend"
)

func openTestStore(t *testing.T, modify ...func(*Config)) *Store {
	t.Helper()

	cfg := DefaultConfig()
	cfg.InMemory = true
	for _, m := range modify {
		m(&cfg)
	}
	s, err := Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_ListeningHistory(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.GetListeningHistory(ctx, "u1"); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Fatalf("GetListeningHistory(unknown) error = %v, want ErrUserNotFound", err)
	}

	want := &recommend.ListeningHistory{
		Recent: recommend.RecentListens{
			recommend.BucketYesterday: {Songs: []string{"s1", "s2"}, Artists: []string{"a1"}},
			recommend.BucketLongerAgo: {Songs: []string{"s9"}},
		},
		TopSongs: []string{"s1"},
	}
	if err := s.PutListeningHistory(ctx, "u1", want); err != nil {
		t.Fatalf("PutListeningHistory() error = %v", err)
	}

	got, err := s.GetListeningHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("GetListeningHistory() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetListeningHistory() = %+v, want %+v", got, want)
	}
}

func TestStore_ImpressionsEmpty(t *testing.T) {
	t.Parallel()

	ids, err := openTestStore(t).GetImpressions(context.Background(), "u1", recommend.ImpressionKeySongs)
	if err != nil {
		t.Fatalf("GetImpressions() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("GetImpressions() = %v, want empty", ids)
	}
}

func TestStore_AppendImpressions(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	steps := []struct {
		seen []string
		want []string
	}{
		{[]string{"s1", "s2"}, []string{"s1", "s2"}},
		{[]string{"s3", "s1"}, []string{"s2", "s3", "s1"}},
		{[]string{"", "s2"}, []string{"s3", "s1", "s2"}},
	}
	for i, step := range steps {
		if err := s.AppendImpressions(ctx, "u1", recommend.ImpressionKeySongs, step.seen); err != nil {
			t.Fatalf("step %d: AppendImpressions() error = %v", i, err)
		}
		got, err := s.GetImpressions(ctx, "u1", recommend.ImpressionKeySongs)
		if err != nil {
			t.Fatalf("step %d: GetImpressions() error = %v", i, err)
		}
		if !reflect.DeepEqual(got, step.want) {
			t.Errorf("step %d: impressions = %v, want %v", i, got, step.want)
		}
	}

	// Other keys and users are independent.
	other, _ := s.GetImpressions(ctx, "u1", recommend.ImpressionKeyPassages)
	if len(other) != 0 {
		t.Errorf("passages impressions = %v, want empty", other)
	}
	otherUser, _ := s.GetImpressions(ctx, "u2", recommend.ImpressionKeySongs)
	if len(otherUser) != 0 {
		t.Errorf("u2 impressions = %v, want empty", otherUser)
	}
}

func TestStore_ImpressionLimit(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, func(c *Config) { c.ImpressionLimit = 3 })
	ctx := context.Background()

	if err := s.AppendImpressions(ctx, "u1", recommend.ImpressionKeyGroups, []string{"a", "b", "c", "d", "e"}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetImpressions(ctx, "u1", recommend.ImpressionKeyGroups)
	if !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Errorf("impressions = %v, want newest three", got)
	}
}

func TestMergeImpressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current []string
		seen    []string
		limit   int
		want    []string
	}{
		{"empty", nil, nil, 5, []string{}},
		{"append", []string{"a"}, []string{"b"}, 5, []string{"a", "b"}},
		{"reseen moves to end", []string{"a", "b", "c"}, []string{"a"}, 5, []string{"b", "c", "a"}},
		{"duplicates in batch", nil, []string{"x", "x"}, 5, []string{"x"}},
		{"trim oldest", []string{"a", "b"}, []string{"c"}, 2, []string{"b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeImpressions(tt.current, tt.seen, tt.limit); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeImpressions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_Artists(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	for _, p := range []recommend.ArtistProfile{
		{ID: "a1", Name: "One", Emoji: "🔥", IndexedSongCount: 12},
		{ID: "a2", Name: "Two", IndexedSongCount: 3},
	} {
		if err := s.PutArtist(ctx, p); err != nil {
			t.Fatalf("PutArtist(%s) error = %v", p.ID, err)
		}
	}
	if err := s.PutArtist(ctx, recommend.ArtistProfile{Name: "nameless"}); err == nil {
		t.Error("PutArtist accepted a profile without id")
	}

	got, err := s.GetArtists(ctx, []string{"a2", "missing", "a1"})
	if err != nil {
		t.Fatalf("GetArtists() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "a2" || got[1].ID != "a1" {
		t.Fatalf("GetArtists() = %+v, want [a2 a1]", got)
	}
	if got[1].Emoji != "🔥" || got[1].IndexedSongCount != 12 {
		t.Errorf("a1 = %+v", got[1])
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.GetListeningHistory(ctx, "u1"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetListeningHistory() error = %v, want context.Canceled", err)
	}
	if err := s.AppendImpressions(ctx, "u1", "songs", []string{"s1"}); !errors.Is(err, context.Canceled) {
		t.Errorf("AppendImpressions() error = %v, want context.Canceled", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Ping() error = %v, want context.Canceled", err)
	}
}

func TestStore_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, func(c *Config) { c.GCInterval = time.Millisecond })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestStore_GCOnDisk(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Path = t.TempDir()
	s, err := Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if err := s.PutArtist(context.Background(), recommend.ArtistProfile{ID: "a1"}); err != nil {
		t.Fatal(err)
	}
	// Nothing to rewrite yet; must not panic or log an error path.
	s.runGC()
	if s.String() != "store-gc" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestOpen_RejectsZeroImpressionLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InMemory = true
	cfg.ImpressionLimit = 0
	if _, err := Open(cfg, zerolog.Nop()); err == nil {
		t.Error("Open() accepted zero impression limit")
	}
}
