// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// lookupPhase returns the songs the caller asked for by id, in request order.
func (r *run) lookupPhase(ctx context.Context) ([]pick, error) {
	ids := dedupe(r.req.LookupSongIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	// Earlier ids get a larger positional weight so the backend keeps
	// request order.
	boosts := make([]Boost, len(ids))
	for i, id := range ids {
		boosts[i] = Boost{Field: FieldSongID, Values: []string{id}, Weight: float64(len(ids) - i)}
	}

	hits, err := r.search(ctx, "song lookup", SearchRequest{
		Filter:    Filter{SongIDs: ids},
		Boosts:    boosts,
		BoostMode: BoostModeReplace,
		Size:      len(ids),
	})
	if err != nil {
		return nil, err
	}

	shownAt := positions(r.state.seenPassages)
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
			result:  resultFor(h, idx, TypeLookup),
			bundles: []BundleInfo{{Type: TypeLookup}},
		})
	}
	return picks, nil
}

// semanticSearchPhase runs the caller's free-text lyric query.
func (r *run) semanticSearchPhase(ctx context.Context) ([]pick, error) {
	query := strings.TrimSpace(r.req.Query)
	if query == "" {
		return nil, nil
	}

	popularity := BuildBoosts(nil).Popularity
	hits, err := r.search(ctx, "lyric search", SearchRequest{
		Text:       query,
		Popularity: &popularity,
		BoostMode:  BoostModeSum,
		Size:       r.cfg.Limits.SearchSize,
	})
	if err != nil {
		return nil, err
	}

	terms := queryTerms(query)
	perArtist := make(map[string]int)
	picks := make([]pick, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if _, dup := seen[h.Song.ID]; dup {
			continue
		}
		artist := h.Song.PrimaryArtist().ID
		if perArtist[artist] >= r.cfg.Sentiment.ArtistCap {
			continue
		}
		idx, ok := bestTextPassage(h.Song.Passages, terms)
		if !ok {
			continue
		}
		seen[h.Song.ID] = struct{}{}
		perArtist[artist]++
		picks = append(picks, pick{
			result:  resultFor(h, idx, TypeSemanticSearch),
			bundles: []BundleInfo{{Type: TypeSemanticSearch, Query: query}},
		})
	}
	return picks, nil
}

// bestTextPassage prefers passages whose lyrics contain the most query terms,
// then falls back to the length heuristic.
func bestTextPassage(passages []LabeledPassage, terms []string) (int, bool) {
	if len(passages) == 0 {
		return 0, false
	}

	order := RankPassages(passages, nil)
	matches := make([]int, len(passages))
	for i := range passages {
		lyrics := strings.ToLower(passages[i].Lyrics)
		for _, t := range terms {
			if strings.Contains(lyrics, t) {
				matches[i]++
			}
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return matches[order[a]] > matches[order[b]]
	})
	return order[0], true
}

// queryTerms lowercases and splits a query into distinct words.
func queryTerms(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	return dedupe(words)
}

// dedupe drops empty and repeated strings, keeping first occurrences.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
