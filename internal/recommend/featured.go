// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// featuredPhase probes candidate artists in order and features the first one
// whose random passage sample is large enough. No qualifying artist is not
// an error.
func (r *run) featuredPhase(ctx context.Context) ([]pick, error) {
	candidates, err := r.featuredCandidates(ctx)
	if err != nil {
		return nil, err
	}

	cfg := r.cfg.Featured
	shownAt := positions(r.state.seenPassages)

	for i := range candidates {
		artist := candidates[i]
		if artist.ID == "" || artist.Name == "" || artist.Emoji == "" {
			r.logger.Debug().Str("artist_id", artist.ID).Msg("featured candidate missing name or emoji")
			continue
		}
		if artist.IndexedSongCount < cfg.MinIndexedSongs {
			r.logger.Debug().
				Str("artist_id", artist.ID).
				Int("indexed_songs", artist.IndexedSongCount).
				Msg("featured candidate has too few indexed songs")
			continue
		}

		seed := int64(r.rng.Intn(math.MaxInt32))
		hits, err := r.search(ctx, "featured artist sample", SearchRequest{
			Filter:     Filter{ArtistIDs: []string{artist.ID}},
			BoostMode:  BoostModeReplace,
			RandomSeed: &seed,
			Size:       cfg.SampleSize,
		})
		if err != nil {
			return nil, err
		}

		picks := make([]pick, 0, len(hits))
		seen := make(map[string]struct{}, len(hits))
		for _, h := range hits {
			if _, dup := seen[h.Song.ID]; dup {
				continue
			}
			idx, ok := selectTopPassage(r.rng, h.Song.ID, h.Song.Passages, shownAt)
			if !ok {
				continue
			}
			seen[h.Song.ID] = struct{}{}
			picks = append(picks, pick{
				result: resultFor(h, idx, TypeArtist),
				bundles: []BundleInfo{{
					Type:       TypeArtist,
					ArtistID:   artist.ID,
					ArtistName: artist.Name,
					Emoji:      artist.Emoji,
				}},
			})
		}

		if len(picks) < cfg.MinResults {
			r.logger.Debug().
				Str("artist_id", artist.ID).
				Int("results", len(picks)).
				Msg("featured candidate yielded too few passages")
			continue
		}

		r.featured = &artist
		r.claim(picks)
		return picks, nil
	}
	return nil, nil
}

// featuredCandidates returns the request's candidates, or the user's most
// played artists resolved through the artist directory.
func (r *run) featuredCandidates(ctx context.Context) ([]ArtistProfile, error) {
	if len(r.req.FeaturedArtists) > 0 {
		return r.req.FeaturedArtists, nil
	}
	if r.engine.artists == nil {
		return nil, nil
	}

	ids := mostPlayedArtists(r.state.history.Recent, r.cfg.Featured.MaxDerivedCandidates)
	if len(ids) == 0 {
		return nil, nil
	}
	profiles, err := r.engine.artists.GetArtists(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve featured artists: %w", err)
	}

	// Keep play-count order regardless of how the directory returned them.
	rank := positions(ids)
	sort.SliceStable(profiles, func(i, j int) bool {
		return rank[profiles[i].ID] < rank[profiles[j].ID]
	})
	return profiles, nil
}

// mostPlayedArtists returns up to n artist ids ordered by play count, ties
// broken by first appearance from the most recent bucket down.
func mostPlayedArtists(listens RecentListens, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, b := range AllBuckets {
		for _, id := range listens[b].Artists {
			if id == "" {
				continue
			}
			if counts[id] == 0 {
				order = append(order, id)
			}
			counts[id]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
