// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package search

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/recommend"
)

// MemoryIndex is an in-process recommend.Searcher over a fixed song set.
// Text relevance is the number of distinct query terms found in any passage.
type MemoryIndex struct {
	mu    sync.RWMutex
	songs map[string]recommend.IndexedSong
}

var _ recommend.Searcher = (*MemoryIndex)(nil)

// NewMemoryIndex creates an index holding songs.
func NewMemoryIndex(songs ...recommend.IndexedSong) *MemoryIndex {
	m := &MemoryIndex{songs: make(map[string]recommend.IndexedSong, len(songs))}
	for i := range songs {
		m.songs[songs[i].ID] = songs[i]
	}
	return m
}

// PutSong adds or replaces a song.
//
//nolint:gocritic // hugeParam: mirrors Client.PutSong
func (m *MemoryIndex) PutSong(_ context.Context, song recommend.IndexedSong) error {
	if song.ID == "" {
		return errors.New("song id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songs[song.ID] = song
	return nil
}

// Len returns the number of indexed songs.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.songs)
}

type scoredSong struct {
	song  *recommend.IndexedSong
	score float64
}

// Search returns matching songs by descending score, ties by id.
func (m *MemoryIndex) Search(ctx context.Context, req recommend.SearchRequest) ([]recommend.Hit, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.RecordSearchQuery("search", time.Since(start), err)
		return nil, err
	}
	if req.Size < 0 {
		err := fmt.Errorf("negative size %d", req.Size)
		metrics.RecordSearchQuery("search", time.Since(start), err)
		return nil, err
	}

	m.mu.RLock()
	matched := m.score(req.Filter, req.Text, req.Boosts, req.Popularity, req.BoostMode, req.RandomSeed)
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].song.ID < matched[j].song.ID
	})
	if len(matched) > req.Size {
		matched = matched[:req.Size]
	}

	hits := make([]recommend.Hit, len(matched))
	for i, s := range matched {
		hits[i] = recommend.Hit{ID: s.song.ID, Score: s.score, Song: *s.song}
	}
	metrics.RecordSearchQuery("search", time.Since(start), nil)
	return hits, nil
}

// Aggregate buckets matching songs by the values of req.GroupBy. A song
// counts once per distinct value.
func (m *MemoryIndex) Aggregate(ctx context.Context, req recommend.AggregateRequest) (map[string]recommend.AggregateBucket, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.RecordSearchQuery("aggregate", time.Since(start), err)
		return nil, err
	}

	m.mu.RLock()
	matched := m.score(req.Filter, "", req.Boosts, req.Popularity, req.BoostMode, nil)
	m.mu.RUnlock()

	out := make(map[string]recommend.AggregateBucket)
	for _, s := range matched {
		values, err := fieldValues(s.song, req.GroupBy)
		if err != nil {
			metrics.RecordSearchQuery("aggregate", time.Since(start), err)
			return nil, err
		}
		for _, v := range uniq(values) {
			b := out[v]
			b.Count++
			b.TotalScore += s.score
			out[v] = b
		}
	}
	metrics.RecordSearchQuery("aggregate", time.Since(start), nil)
	return out, nil
}

// score must be called with mu held.
func (m *MemoryIndex) score(f recommend.Filter, text string, boosts []recommend.Boost, pop *recommend.PopularityBoost, mode recommend.BoostMode, seed *int64) []scoredSong {
	terms := strings.Fields(strings.ToLower(text))

	var out []scoredSong
	for id := range m.songs {
		song := m.songs[id]
		if !matchesFilter(&song, f) {
			continue
		}

		base := 1.0
		if len(terms) > 0 {
			base = float64(termMatches(&song, terms))
			if base == 0 {
				continue
			}
		}

		var fn float64
		for _, b := range boosts {
			values, _ := fieldValues(&song, b.Field)
			if containsAny(values, b.Values) != b.Negate {
				fn += b.Weight
			}
		}
		if pop != nil {
			fn += pop.Value(song.Popularity)
		}
		if seed != nil {
			fn += randomScore(*seed, song.ID)
		}

		total := fn
		if mode != recommend.BoostModeReplace {
			total += base
		}
		out = append(out, scoredSong{song: &song, score: total})
	}
	return out
}

func matchesFilter(s *recommend.IndexedSong, f recommend.Filter) bool {
	artists, _ := fieldValues(s, recommend.FieldArtistID)
	switch {
	case len(f.SongIDs) > 0 && !slices.Contains(f.SongIDs, s.ID):
		return false
	case slices.Contains(f.ExcludeSongIDs, s.ID):
		return false
	case len(f.ArtistIDs) > 0 && !containsAny(artists, f.ArtistIDs):
		return false
	case containsAny(artists, f.ExcludeArtistIDs):
		return false
	}
	if len(f.Sentiments) > 0 {
		sentiments, _ := fieldValues(s, recommend.FieldPassageSentiments)
		if !containsAny(sentiments, f.Sentiments) {
			return false
		}
	}
	return true
}

func termMatches(s *recommend.IndexedSong, terms []string) int {
	n := 0
	for _, term := range terms {
		for _, p := range s.Passages {
			if strings.Contains(strings.ToLower(p.Lyrics), term) {
				n++
				break
			}
		}
	}
	return n
}

func fieldValues(s *recommend.IndexedSong, field string) ([]string, error) {
	switch field {
	case recommend.FieldSongID:
		return []string{s.ID}, nil
	case recommend.FieldArtistID:
		out := make([]string, len(s.Artists))
		for i, a := range s.Artists {
			out[i] = a.ID
		}
		return out, nil
	case recommend.FieldPassageSentiments:
		var out []string
		for _, p := range s.Passages {
			out = append(out, p.Sentiments...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported field %q", field)
	}
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

func uniq(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// randomScore maps (seed, id) to a stable value in [0, 1).
func randomScore(seed int64, id string) float64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(id))
	return float64(h.Sum64()>>11) / (1 << 53)
}
