// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

// RandSource is the randomness the engine needs. *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// Weighted pairs a key with its sampling weight.
type Weighted[K comparable] struct {
	Key    K
	Weight float64
}

// ChooseOne draws a single key with probability proportional to its weight.
// The cumulative sum is built in slice order. Returns the index of the
// chosen entry, or -1 if items is empty.
func ChooseOne[K comparable](rng RandSource, items []Weighted[K]) int {
	if len(items) == 0 {
		return -1
	}

	cumulative := make([]float64, len(items))
	total := 0.0
	for i, it := range items {
		if it.Weight > 0 {
			total += it.Weight
		}
		cumulative[i] = total
	}

	draw := rng.Float64() * total
	for i, c := range cumulative {
		if c > draw {
			return i
		}
	}
	// Only reachable when every weight is zero or through rounding at the top.
	return len(items) - 1
}

// ChooseK draws up to k distinct keys without replacement. The result holds
// min(k, len(items)) keys in draw order. Duplicate keys in items are
// collapsed, keeping the first occurrence.
func ChooseK[K comparable](rng RandSource, items []Weighted[K], k int) []K {
	if k <= 0 || len(items) == 0 {
		return nil
	}

	pool := make([]Weighted[K], 0, len(items))
	seen := make(map[K]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.Key]; dup {
			continue
		}
		seen[it.Key] = struct{}{}
		pool = append(pool, it)
	}

	out := make([]K, 0, min(k, len(pool)))
	for len(out) < k && len(pool) > 0 {
		idx := ChooseOne(rng, pool)
		out = append(out, pool[idx].Key)
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return out
}
