// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/moodlyrics/internal/recommend"
	"github.com/tomtom215/moodlyrics/internal/validation"
)

// fixture is a bundle of seed data. Field names follow the JSON API, so the
// same file may be written as YAML or JSON.
//
//	songs:
//	  - id: s1
//	    name: Rain Song
//	    artists: [{id: a1, name: Artist One}]
//	    popularity: 40
//	    passages:
//	      - lyrics: "the rain keeps falling"
//	        sentiments: [melancholy]
//	artists:
//	  - {id: a1, name: Artist One, indexed_song_count: 12}
//	histories:
//	  u1:
//	    recent:
//	      yesterday: {songs: [s1], artists: [a1]}
//	    top_songs: [s1]
type fixture struct {
	Songs     []recommend.IndexedSong                `json:"songs"`
	Artists   []recommend.ArtistProfile              `json:"artists"`
	Histories map[string]*recommend.ListeningHistory `json:"histories"`
}

// seedCounts reports how much of a fixture was written.
type seedCounts struct {
	Songs     int `json:"songs"`
	Artists   int `json:"artists"`
	Histories int `json:"histories"`
}

// userWriter stores listening histories and artist profiles.
// *store.Store satisfies it.
type userWriter interface {
	PutListeningHistory(ctx context.Context, userID string, history *recommend.ListeningHistory) error
	PutArtist(ctx context.Context, profile recommend.ArtistProfile) error
}

const seedConcurrency = 8

func readFixture(path string) (*fixture, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer func() { _ = f.Close() }()

	fx, err := decodeFixture(f)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return fx, nil
}

// decodeFixture parses YAML (or JSON) and re-encodes it as JSON so the
// domain types' json tags apply.
func decodeFixture(r io.Reader) (*fixture, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &fixture{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encode: %w", err)
	}

	var fx fixture
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *fixture) validate() error {
	for i := range fx.Songs {
		s := &fx.Songs[i]
		if err := validation.ValidateVar("songs.id", s.ID, "required,storekey"); err != nil {
			return fmt.Errorf("song %d: %w", i, err)
		}
		if len(s.Artists) == 0 {
			return fmt.Errorf("song %s: at least one artist is required", s.ID)
		}
	}
	for _, a := range fx.Artists {
		if err := validation.ValidateVar("artists.id", a.ID, "required,storekey"); err != nil {
			return err
		}
	}
	for userID, h := range fx.Histories {
		if err := validation.ValidateVar("histories", userID, "required,storekey"); err != nil {
			return err
		}
		if h == nil {
			return fmt.Errorf("history for %s is empty", userID)
		}
	}
	return nil
}

// apply writes the fixture. Passage metadata is recomputed from the lyrics
// so fixtures only need to carry text and labels.
func (fx *fixture) apply(ctx context.Context, songs songWriter, users userWriter) (seedCounts, error) {
	var counts seedCounts

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for i := range fx.Songs {
		song := fx.Songs[i]
		song.Passages = make([]recommend.LabeledPassage, len(fx.Songs[i].Passages))
		for j, p := range fx.Songs[i].Passages {
			p.Metadata = recommend.ComputePassageMetadata(p.Lyrics)
			song.Passages[j] = p
		}
		g.Go(func() error {
			if err := songs.PutSong(gctx, song); err != nil {
				return fmt.Errorf("index song %s: %w", song.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return counts, err
	}
	counts.Songs = len(fx.Songs)

	for _, a := range fx.Artists {
		if err := users.PutArtist(ctx, a); err != nil {
			return counts, fmt.Errorf("store artist %s: %w", a.ID, err)
		}
		counts.Artists++
	}

	for userID, h := range fx.Histories {
		if err := users.PutListeningHistory(ctx, userID, h); err != nil {
			return counts, fmt.Errorf("store history for %s: %w", userID, err)
		}
		counts.Histories++
	}
	return counts, nil
}
