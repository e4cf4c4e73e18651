// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"context"
	"math"
	"sort"
)

// SongPoints is a song's accumulated top-phase score.
type SongPoints struct {
	ID     string
	Points float64
}

// TopSongPoints scores songs for the top-passages phase. Every listen earns
// the reward of its bucket, songs already shown are damped, and explicitly
// known top songs get a flat bonus afterwards. Songs are returned in
// first-seen order; songs with no points are dropped.
func TopSongPoints(history ListeningHistory, seen map[string]struct{}, cfg TopConfig) []SongPoints {
	points := make(map[string]float64)
	var order []string
	add := func(id string, p float64) {
		if id == "" {
			return
		}
		if _, ok := points[id]; !ok {
			order = append(order, id)
		}
		points[id] += p
	}

	for _, b := range AllBuckets {
		reward := cfg.Rewards[b]
		for _, id := range history.Recent[b].Songs {
			add(id, reward)
		}
	}

	for id, p := range points {
		if _, shown := seen[id]; shown {
			points[id] = math.Ceil(p / cfg.SeenDamping)
		}
	}

	for i, id := range history.TopSongs {
		bonus := cfg.OtherTopSongBoost
		if i < cfg.TopSongCount {
			bonus = cfg.TopSongBoost
		}
		add(id, bonus)
	}

	out := make([]SongPoints, 0, len(order))
	for _, id := range order {
		if points[id] > 0 {
			out = append(out, SongPoints{ID: id, Points: points[id]})
		}
	}
	return out
}

// NormalizePoints snaps a point total to 2^floor(2*log2(p)) so near-equal
// totals share a boost weight. Non-positive totals map to zero.
func NormalizePoints(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return math.Exp2(math.Floor(2 * math.Log2(p)))
}

// topBoosts groups songs by normalized points into one boost per weight,
// heaviest first.
func topBoosts(songs []SongPoints) []Boost {
	byWeight := make(map[float64][]string)
	var weights []float64
	for _, s := range songs {
		w := NormalizePoints(s.Points)
		if _, ok := byWeight[w]; !ok {
			weights = append(weights, w)
		}
		byWeight[w] = append(byWeight[w], s.ID)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(weights)))

	boosts := make([]Boost, 0, len(weights))
	for _, w := range weights {
		boosts = append(boosts, Boost{Field: FieldSongID, Values: byWeight[w], Weight: w})
	}
	return boosts
}

// topPhase recommends passages from the songs the user listens to most.
func (r *run) topPhase(ctx context.Context) ([]pick, error) {
	cfg := r.cfg.Top
	songs := TopSongPoints(r.state.history, toSet(r.state.seenSongs), cfg)
	if len(songs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	filter := Filter{SongIDs: ids}
	if r.featured != nil {
		filter.ExcludeArtistIDs = []string{r.featured.ID}
	}

	hits, err := r.search(ctx, "top songs", SearchRequest{
		Filter:    filter,
		Boosts:    topBoosts(songs),
		BoostMode: BoostModeReplace,
		Size:      cfg.QuerySize,
	})
	if err != nil {
		return nil, err
	}

	shownAt := positions(r.state.seenPassages)
	var candidates []pick
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if _, dup := seen[h.Song.ID]; dup {
			continue
		}
		if _, taken := r.claimed[h.Song.ID]; taken {
			continue
		}
		idx, ok := selectTopPassage(r.rng, h.Song.ID, h.Song.Passages, shownAt)
		if !ok {
			continue
		}
		seen[h.Song.ID] = struct{}{}
		candidates = append(candidates, pick{
			result:  resultFor(h, idx, TypeTop),
			bundles: []BundleInfo{{Type: TypeTop}},
		})
	}

	picks := capPerArtist(candidates, cfg.Count)
	r.claim(picks)
	return picks, nil
}

// capPerArtist greedily keeps up to total picks in order, allowing each
// primary artist ceil(total/distinctArtists) of them.
func capPerArtist(candidates []pick, total int) []pick {
	if len(candidates) == 0 || total <= 0 {
		return nil
	}

	distinct := make(map[string]struct{})
	for _, c := range candidates {
		distinct[c.result.Song.PrimaryArtist().ID] = struct{}{}
	}
	perArtist := int(math.Ceil(float64(total) / float64(len(distinct))))

	out := make([]pick, 0, min(total, len(candidates)))
	perCount := make(map[string]int)
	for _, c := range candidates {
		if len(out) >= total {
			break
		}
		artist := c.result.Song.PrimaryArtist().ID
		if perCount[artist] >= perArtist {
			continue
		}
		perCount[artist]++
		out = append(out, c)
	}
	return out
}
