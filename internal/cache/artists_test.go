// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/moodlyrics/internal/recommend"
)

type fakeDirectory struct {
	profiles map[string]recommend.ArtistProfile
	calls    [][]string
	err      error
}

func (f *fakeDirectory) GetArtists(_ context.Context, ids []string) ([]recommend.ArtistProfile, error) {
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	var out []recommend.ArtistProfile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{profiles: map[string]recommend.ArtistProfile{
		"a1": {ID: "a1", Name: "One", IndexedSongCount: 10},
		"a2": {ID: "a2", Name: "Two", IndexedSongCount: 20},
		"a3": {ID: "a3", Name: "Three", IndexedSongCount: 30},
	}}
}

func ids(profiles []recommend.ArtistProfile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}

func TestArtistDirectory_FetchesOnlyMisses(t *testing.T) {
	next := newFakeDirectory()
	d := NewArtistDirectory(next, 10, time.Minute)
	ctx := context.Background()

	got, err := d.GetArtists(ctx, []string{"a2", "a1"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids(got), []string{"a2", "a1"}) {
		t.Errorf("first lookup = %v, want [a2 a1]", ids(got))
	}

	got, err = d.GetArtists(ctx, []string{"a3", "a1", "a2"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids(got), []string{"a3", "a1", "a2"}) {
		t.Errorf("second lookup = %v, want request order [a3 a1 a2]", ids(got))
	}

	want := [][]string{{"a2", "a1"}, {"a3"}}
	if !reflect.DeepEqual(next.calls, want) {
		t.Errorf("backend calls = %v, want %v", next.calls, want)
	}
}

func TestArtistDirectory_UnknownNotCached(t *testing.T) {
	next := newFakeDirectory()
	d := NewArtistDirectory(next, 10, time.Minute)
	ctx := context.Background()

	got, err := d.GetArtists(ctx, []string{"ghost", "a1"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids(got), []string{"a1"}) {
		t.Errorf("lookup = %v, want [a1]", ids(got))
	}

	next.profiles["ghost"] = recommend.ArtistProfile{ID: "ghost"}
	got, _ = d.GetArtists(ctx, []string{"ghost"})
	if len(got) != 1 {
		t.Errorf("newly added artist not visible: %v", got)
	}
}

func TestArtistDirectory_DuplicateIDs(t *testing.T) {
	d := NewArtistDirectory(newFakeDirectory(), 10, time.Minute)

	got, err := d.GetArtists(context.Background(), []string{"a1", "a1", "a2"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids(got), []string{"a1", "a2"}) {
		t.Errorf("lookup = %v, want [a1 a2]", ids(got))
	}
}

func TestArtistDirectory_BackendError(t *testing.T) {
	next := newFakeDirectory()
	next.err = errors.New("store closed")
	d := NewArtistDirectory(next, 10, time.Minute)

	if _, err := d.GetArtists(context.Background(), []string{"a1"}); !errors.Is(err, next.err) {
		t.Errorf("error = %v, want %v", err, next.err)
	}
}

func TestArtistDirectory_Invalidate(t *testing.T) {
	next := newFakeDirectory()
	d := NewArtistDirectory(next, 10, time.Minute)
	ctx := context.Background()

	if _, err := d.GetArtists(ctx, []string{"a1"}); err != nil {
		t.Fatal(err)
	}
	next.profiles["a1"] = recommend.ArtistProfile{ID: "a1", Name: "Renamed"}

	got, _ := d.GetArtists(ctx, []string{"a1"})
	if got[0].Name != "One" {
		t.Errorf("cached name = %q, want One", got[0].Name)
	}

	d.Invalidate("a1")
	got, _ = d.GetArtists(ctx, []string{"a1"})
	if got[0].Name != "Renamed" {
		t.Errorf("name after Invalidate = %q, want Renamed", got[0].Name)
	}
}
