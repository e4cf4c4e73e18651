// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"math"
	"sort"
)

// idealLineCounts is the preferred passage length in effective lines, best
// first.
var idealLineCounts = []int{6, 5, 4, 7, 8, 3, 2, 1}

// lengthRank orders a passage length: positions in idealLineCounts first,
// then longer passages by ascending length, then empty passages.
func lengthRank(effectiveLines int) int {
	for i, n := range idealLineCounts {
		if n == effectiveLines {
			return i
		}
	}
	if effectiveLines > 8 {
		return len(idealLineCounts) + effectiveLines - 9
	}
	return math.MaxInt
}

// RankPassages returns passage indexes ordered best first: passages that
// carry a target sentiment before those that do not, then by length rank.
// The sort is stable, so equal passages keep their input order.
func RankPassages(passages []LabeledPassage, targets map[string]struct{}) []int {
	order := make([]int, len(passages))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := &passages[order[a]], &passages[order[b]]
		ma, mb := pa.HasAnySentiment(targets), pb.HasAnySentiment(targets)
		if ma != mb {
			return ma
		}
		return lengthRank(pa.Metadata.NumEffectiveLines) < lengthRank(pb.Metadata.NumEffectiveLines)
	})
	return order
}

// SelectBestPassage returns the index of the best passage for the target
// sentiments. ok is false when passages is empty.
func SelectBestPassage(passages []LabeledPassage, targets map[string]struct{}) (index int, ok bool) {
	if len(passages) == 0 {
		return 0, false
	}
	return RankPassages(passages, targets)[0], true
}

// selectTopPassage picks the passage for a top-songs result. Passages never
// shown win, ranked by length. When every passage has been shown, one of the
// two least recently shown is picked at random.
func selectTopPassage(rng RandSource, songID string, passages []LabeledPassage, shownAt map[string]int) (int, bool) {
	if len(passages) == 0 {
		return 0, false
	}

	var unseen, seen []int
	for _, idx := range RankPassages(passages, nil) {
		if _, shown := shownAt[PassageKey(songID, idx)]; shown {
			seen = append(seen, idx)
		} else {
			unseen = append(unseen, idx)
		}
	}
	if len(unseen) > 0 {
		return unseen[0], true
	}

	sort.SliceStable(seen, func(a, b int) bool {
		return shownAt[PassageKey(songID, seen[a])] < shownAt[PassageKey(songID, seen[b])]
	})
	oldest := seen[:min(2, len(seen))]
	return oldest[rng.Intn(len(oldest))], true
}

// toSet builds a membership set.
func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// positions maps each id to the index of its last occurrence, so a larger
// value means more recently seen.
func positions(ids []string) map[string]int {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	return pos
}
