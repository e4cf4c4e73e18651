// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

// seqRand replays fixed values. Float64 cycles through floats; Intn cycles
// through ints modulo n. Both return 0 when empty.
type seqRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *seqRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *seqRand) Intn(n int) int {
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

// mockSearcher records requests and delegates to optional hooks.
type mockSearcher struct {
	mu          sync.Mutex
	searchFn    func(req SearchRequest) ([]Hit, error)
	aggregateFn func(req AggregateRequest) (map[string]AggregateBucket, error)
	searches    []SearchRequest
	aggregates  []AggregateRequest
}

func (m *mockSearcher) Search(ctx context.Context, req SearchRequest) ([]Hit, error) {
	m.mu.Lock()
	m.searches = append(m.searches, req)
	m.mu.Unlock()
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(req)
}

func (m *mockSearcher) Aggregate(ctx context.Context, req AggregateRequest) (map[string]AggregateBucket, error) {
	m.mu.Lock()
	m.aggregates = append(m.aggregates, req)
	m.mu.Unlock()
	if m.aggregateFn == nil {
		return nil, nil
	}
	return m.aggregateFn(req)
}

// searchesWhere returns the recorded searches matching pred.
func (m *mockSearcher) searchesWhere(pred func(SearchRequest) bool) []SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SearchRequest
	for _, r := range m.searches {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func isSentimentQuery(r SearchRequest) bool { return len(r.Filter.Sentiments) > 0 }
func isArtistSample(r SearchRequest) bool   { return len(r.Filter.ArtistIDs) > 0 }
func isTopQuery(r SearchRequest) bool {
	return len(r.Filter.SongIDs) > 0 && r.BoostMode == BoostModeReplace && r.Size > len(r.Filter.SongIDs)
}

// fakeIndex is a tiny in-memory backend honoring filters and boosts.
type fakeIndex struct {
	songs []IndexedSong
}

func (f *fakeIndex) search(req SearchRequest) ([]Hit, error) {
	type scored struct {
		song  IndexedSong
		score float64
	}
	var matched []scored
	for _, s := range f.songs {
		if !f.matches(s, req) {
			continue
		}
		score := 0.0
		if req.BoostMode != BoostModeReplace {
			score = 1
		}
		for _, b := range req.Boosts {
			if boostApplies(s, b) {
				score += b.Weight
			}
		}
		if req.Popularity != nil {
			score += req.Popularity.Value(s.Popularity)
		}
		matched = append(matched, scored{song: s, score: score})
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })

	if len(matched) > req.Size {
		matched = matched[:req.Size]
	}
	hits := make([]Hit, len(matched))
	for i, m := range matched {
		hits[i] = Hit{ID: m.song.ID, Score: m.score, Song: m.song}
	}
	return hits, nil
}

func (f *fakeIndex) matches(s IndexedSong, req SearchRequest) bool {
	flt := req.Filter
	if len(flt.SongIDs) > 0 && !containsStr(flt.SongIDs, s.ID) {
		return false
	}
	if containsStr(flt.ExcludeSongIDs, s.ID) {
		return false
	}
	if len(flt.ArtistIDs) > 0 && !anyArtist(s, flt.ArtistIDs) {
		return false
	}
	if anyArtist(s, flt.ExcludeArtistIDs) {
		return false
	}
	if len(flt.Sentiments) > 0 && !anyPassageSentiment(s, flt.Sentiments) {
		return false
	}
	if req.Text != "" {
		found := false
		for _, p := range s.Passages {
			if strings.Contains(strings.ToLower(p.Lyrics), strings.ToLower(req.Text)) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func boostApplies(s IndexedSong, b Boost) bool {
	var hit bool
	switch b.Field {
	case FieldSongID:
		hit = containsStr(b.Values, s.ID)
	case FieldArtistID:
		hit = anyArtist(s, b.Values)
	}
	return hit != b.Negate
}

func containsStr(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func anyArtist(s IndexedSong, ids []string) bool {
	for _, a := range s.Artists {
		if containsStr(ids, a.ID) {
			return true
		}
	}
	return false
}

func anyPassageSentiment(s IndexedSong, names []string) bool {
	for _, p := range s.Passages {
		for _, n := range p.Sentiments {
			if containsStr(names, n) {
				return true
			}
		}
	}
	return false
}

// mockHistory implements HistoryStore.
type mockHistory struct {
	histories map[string]*ListeningHistory
	err       error
}

func (m *mockHistory) GetListeningHistory(ctx context.Context, userID string) (*ListeningHistory, error) {
	if m.err != nil {
		return nil, m.err
	}
	h, ok := m.histories[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return h, nil
}

// mockImpressions implements ImpressionStore.
type mockImpressions struct {
	data map[string][]string // key: userID + "/" + key
	err  error
}

func (m *mockImpressions) GetImpressions(ctx context.Context, userID, key string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data[userID+"/"+key], nil
}

// mockArtists implements ArtistDirectory.
type mockArtists struct {
	profiles  map[string]ArtistProfile
	requested [][]string
}

func (m *mockArtists) GetArtists(ctx context.Context, ids []string) ([]ArtistProfile, error) {
	m.requested = append(m.requested, ids)
	// Reverse order to prove the engine restores play-count order.
	var out []ArtistProfile
	for i := len(ids) - 1; i >= 0; i-- {
		if p, ok := m.profiles[ids[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// passageOf builds a passage with the given number of short lines.
func passageOf(lines int, sentiments ...string) LabeledPassage {
	return NewLabeledPassage(strings.TrimSuffix(strings.Repeat("la la\n", lines), "\n"), sentiments...)
}

func songOf(id, artistID string, passages ...LabeledPassage) IndexedSong {
	if len(passages) == 0 {
		passages = []LabeledPassage{passageOf(6)}
	}
	return IndexedSong{
		ID:       id,
		Name:     "Song " + id,
		Artists:  []Artist{{ID: artistID, Name: "Artist " + artistID}},
		Passages: passages,
	}
}

// allSentimentNames returns every catalog sentiment name.
func allSentimentNames() []string {
	all := sentiment.Default().All()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.Name
	}
	return out
}

// richBuckets aggregates every catalog sentiment with the same statistics.
func richBuckets(count int, score float64) map[string]AggregateBucket {
	out := make(map[string]AggregateBucket)
	for _, n := range allSentimentNames() {
		out[n] = AggregateBucket{Count: count, TotalScore: score}
	}
	return out
}

// scoredOf looks up sentiments in the default catalog.
func scoredOf(count int, score float64, names ...string) []ScoredSentiment {
	out := make([]ScoredSentiment, 0, len(names))
	for _, n := range names {
		s, ok := sentiment.Default().Lookup(n)
		if !ok {
			panic(fmt.Sprintf("unknown sentiment %q", n))
		}
		out = append(out, ScoredSentiment{Sentiment: s, Count: count, Score: score})
	}
	return out
}
