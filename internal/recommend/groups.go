// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"math"

	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

const (
	// maxMinCount is where the search for a usable count floor starts.
	maxMinCount = 5

	groupsPerDay       = 3
	sentimentsPerGroup = 3

	// previousGroupPenalty divides the score of a group recommended recently.
	previousGroupPenalty = 4.0
)

// GroupPick is one chosen sentiment group with the sentiments drawn from it.
type GroupPick struct {
	Group      sentiment.Group       `json:"group"`
	Score      float64               `json:"score"`
	Sentiments []sentiment.Sentiment `json:"sentiments"`

	// NegativeSlot marks the single group allowed to carry more than one
	// negative sentiment.
	NegativeSlot bool `json:"negative_slot"`
}

// SentimentSelection is the outcome of SelectSentimentGroups.
type SentimentSelection struct {
	MinCount int         `json:"min_count"`
	Groups   []GroupPick `json:"groups"`
}

// Flatten returns every chosen sentiment in group draw order.
func (s *SentimentSelection) Flatten() []sentiment.Sentiment {
	if s == nil {
		return nil
	}
	var out []sentiment.Sentiment
	for _, g := range s.Groups {
		out = append(out, g.Sentiments...)
	}
	return out
}

// Names returns the chosen sentiment names.
func (s *SentimentSelection) Names() []string {
	flat := s.Flatten()
	out := make([]string, len(flat))
	for i, st := range flat {
		out[i] = st.Name
	}
	return out
}

// GroupNames returns the chosen group names in draw order.
func (s *SentimentSelection) GroupNames() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = string(g.Group)
	}
	return out
}

// SelectSentiments is SelectSentimentGroups flattened to a sentiment list.
// It returns nil when there is not enough data.
func SelectSentiments(rng RandSource, scored []ScoredSentiment, previous map[sentiment.Group]struct{}) []sentiment.Sentiment {
	return SelectSentimentGroups(rng, scored, previous).Flatten()
}

// groupStats is the per-group view of the scored sentiments.
type groupStats struct {
	group sentiment.Group

	// eligible holds sentiments with count > minCount.
	eligible []ScoredSentiment

	// pool holds sentiments with count >= minCount and a positive score;
	// sentiments are drawn from it.
	pool []ScoredSentiment

	score float64
}

func (g *groupStats) nonNegativeEligible() int {
	n := 0
	for _, s := range g.eligible {
		if !s.Sentiment.IsNegative() {
			n++
		}
	}
	return n
}

func (g *groupStats) negativeEligible() int {
	return len(g.eligible) - g.nonNegativeEligible()
}

// negativeLeaning reports whether the group lacks two eligible non-negative
// sentiments.
func (g *groupStats) negativeLeaning() bool {
	return g.nonNegativeEligible() < 2
}

// SelectSentimentGroups picks up to three sentiment groups for today and up
// to three sentiments within each.
//
// At most one chosen group may be negative-leaning. When none is, the most
// positive chosen group becomes the negative slot so results do not skew
// positive every time. Outside the negative slot a
// group keeps at most one negative sentiment.
//
// Returns nil when scored is empty.
func SelectSentimentGroups(rng RandSource, scored []ScoredSentiment, previous map[sentiment.Group]struct{}) *SentimentSelection {
	scored = dedupeScored(scored)
	if len(scored) == 0 {
		return nil
	}

	minCount := chooseMinCount(scored)
	stats := buildGroupStats(scored, minCount, previous)

	candidates := make([]Weighted[sentiment.Group], 0, len(stats))
	byGroup := make(map[sentiment.Group]*groupStats, len(stats))
	for _, g := range stats {
		byGroup[g.group] = g
		if len(g.eligible) > 0 && g.score > 0 {
			candidates = append(candidates, Weighted[sentiment.Group]{Key: g.group, Weight: g.score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	chosen := ChooseK(rng, candidates, groupsPerDay)
	chosen = enforceNegativeGroupLimit(rng, chosen, candidates, byGroup)
	slot := negativeSlot(chosen, byGroup)

	sel := &SentimentSelection{MinCount: minCount}
	for _, g := range chosen {
		st := byGroup[g]
		picked := drawSentiments(rng, st.pool, g == slot)
		if len(picked) == 0 {
			continue
		}
		sel.Groups = append(sel.Groups, GroupPick{
			Group:        g,
			Score:        st.score,
			Sentiments:   picked,
			NegativeSlot: g == slot,
		})
	}
	if len(sel.Groups) == 0 {
		return nil
	}
	return sel
}

// dedupeScored drops repeated sentiment names, keeping the first entry.
func dedupeScored(scored []ScoredSentiment) []ScoredSentiment {
	out := make([]ScoredSentiment, 0, len(scored))
	seen := make(map[string]struct{}, len(scored))
	for _, s := range scored {
		if s.Sentiment.Name == "" {
			continue
		}
		if _, dup := seen[s.Sentiment.Name]; dup {
			continue
		}
		seen[s.Sentiment.Name] = struct{}{}
		out = append(out, s)
	}
	return out
}

// chooseMinCount returns the largest floor in [maxMinCount..1] at which at
// least two groups have two eligible non-negative sentiments and at least
// three groups have two eligible sentiments. Falls back to 0.
func chooseMinCount(scored []ScoredSentiment) int {
	for minCount := maxMinCount; minCount > 0; minCount-- {
		eligible := make(map[sentiment.Group]int)
		nonNegative := make(map[sentiment.Group]int)
		for _, s := range scored {
			if s.Count <= minCount {
				continue
			}
			eligible[s.Sentiment.Group]++
			if !s.Sentiment.IsNegative() {
				nonNegative[s.Sentiment.Group]++
			}
		}

		groupsWithTwo, nonNegativeGroups := 0, 0
		for g, n := range eligible {
			if n >= 2 {
				groupsWithTwo++
			}
			if nonNegative[g] >= 2 {
				nonNegativeGroups++
			}
		}
		if nonNegativeGroups >= 2 && groupsWithTwo >= 3 {
			return minCount
		}
	}
	return 0
}

// buildGroupStats collects per-group statistics in canonical group order.
func buildGroupStats(scored []ScoredSentiment, minCount int, previous map[sentiment.Group]struct{}) []*groupStats {
	byGroup := make(map[sentiment.Group]*groupStats)
	for _, s := range scored {
		g := byGroup[s.Sentiment.Group]
		if g == nil {
			g = &groupStats{group: s.Sentiment.Group}
			byGroup[s.Sentiment.Group] = g
		}
		if s.Count > minCount {
			g.eligible = append(g.eligible, s)
			g.score += s.Score * s.Score
		}
		if s.Count >= minCount && s.Score > 0 {
			g.pool = append(g.pool, s)
		}
	}

	out := make([]*groupStats, 0, len(byGroup))
	for _, grp := range sentiment.AllGroups {
		g, ok := byGroup[grp]
		if !ok {
			continue
		}
		if _, recent := previous[grp]; recent {
			g.score /= previousGroupPenalty
		}
		out = append(out, g)
	}
	return out
}

// enforceNegativeGroupLimit keeps the first negative-leaning group and
// replaces any other with a non-negative-eligible group drawn from the
// remaining candidates. Excess groups are dropped when no replacement is left.
func enforceNegativeGroupLimit(rng RandSource, chosen []sentiment.Group, candidates []Weighted[sentiment.Group], byGroup map[sentiment.Group]*groupStats) []sentiment.Group {
	out := make([]sentiment.Group, 0, len(chosen))
	inUse := make(map[sentiment.Group]struct{}, len(chosen))
	for _, g := range chosen {
		inUse[g] = struct{}{}
	}

	haveNegative := false
	for _, g := range chosen {
		if !byGroup[g].negativeLeaning() {
			out = append(out, g)
			continue
		}
		if !haveNegative {
			haveNegative = true
			out = append(out, g)
			continue
		}

		var pool []Weighted[sentiment.Group]
		for _, c := range candidates {
			if _, used := inUse[c.Key]; used {
				continue
			}
			if byGroup[c.Key].negativeLeaning() {
				continue
			}
			pool = append(pool, c)
		}
		if len(pool) == 0 {
			continue
		}
		replacement := pool[ChooseOne(rng, pool)].Key
		inUse[replacement] = struct{}{}
		out = append(out, replacement)
	}
	return out
}

// negativeSlot returns the group allowed to carry several negative
// sentiments: the negative-leaning group if one was chosen, otherwise the
// chosen group with the fewest eligible negative sentiments (earliest drawn
// on ties).
func negativeSlot(chosen []sentiment.Group, byGroup map[sentiment.Group]*groupStats) sentiment.Group {
	for _, g := range chosen {
		if byGroup[g].negativeLeaning() {
			return g
		}
	}

	var slot sentiment.Group
	best := math.MaxInt
	for _, g := range chosen {
		if n := byGroup[g].negativeEligible(); n < best {
			best = n
			slot = g
		}
	}
	return slot
}

// drawSentiments draws up to sentimentsPerGroup sentiments weighted by score.
// Unless allowNegatives is set, only the first negative draw is kept and the
// others are replaced with non-negative sentiments from the same pool.
func drawSentiments(rng RandSource, pool []ScoredSentiment, allowNegatives bool) []sentiment.Sentiment {
	weighted := make([]Weighted[string], len(pool))
	byName := make(map[string]sentiment.Sentiment, len(pool))
	for i, s := range pool {
		weighted[i] = Weighted[string]{Key: s.Sentiment.Name, Weight: s.Score}
		byName[s.Sentiment.Name] = s.Sentiment
	}

	names := ChooseK(rng, weighted, sentimentsPerGroup)
	if allowNegatives {
		out := make([]sentiment.Sentiment, len(names))
		for i, n := range names {
			out[i] = byName[n]
		}
		return out
	}

	inUse := toSet(names)
	out := make([]sentiment.Sentiment, 0, len(names))
	haveNegative := false
	for _, n := range names {
		s := byName[n]
		if !s.IsNegative() {
			out = append(out, s)
			continue
		}
		if !haveNegative {
			haveNegative = true
			out = append(out, s)
			continue
		}

		var replacements []Weighted[string]
		for _, w := range weighted {
			if _, used := inUse[w.Key]; used {
				continue
			}
			if byName[w.Key].IsNegative() {
				continue
			}
			replacements = append(replacements, w)
		}
		if len(replacements) == 0 {
			continue
		}
		r := replacements[ChooseOne(rng, replacements)].Key
		inUse[r] = struct{}{}
		out = append(out, byName[r])
	}
	return out
}
