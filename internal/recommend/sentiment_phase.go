// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"context"
	"sort"

	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/sentiment"
)

// ScoredSentimentsFromBuckets converts an aggregation keyed by sentiment name
// into scored sentiments in catalog order. Names missing from the catalog
// are dropped.
func ScoredSentimentsFromBuckets(catalog *sentiment.Catalog, buckets map[string]AggregateBucket) []ScoredSentiment {
	out := make([]ScoredSentiment, 0, len(buckets))
	for _, s := range catalog.All() {
		b, ok := buckets[s.Name]
		if !ok {
			continue
		}
		out = append(out, ScoredSentiment{Sentiment: s, Count: b.Count, Score: b.TotalScore})
	}
	return out
}

// recentGroupSet returns the known groups among the last window entries.
func recentGroupSet(groups []string, window int) map[sentiment.Group]struct{} {
	if window <= 0 {
		return nil
	}
	if len(groups) > window {
		groups = groups[len(groups)-window:]
	}
	out := make(map[sentiment.Group]struct{}, len(groups))
	for _, g := range groups {
		if grp := sentiment.Group(g); grp.Valid() {
			out[grp] = struct{}{}
		}
	}
	return out
}

// sentimentLoop is the depletion state of the sentiment phase.
type sentimentLoop struct {
	quota     int
	artistCap int

	targets      []sentiment.Sentiment
	counts       map[string]int
	artistCounts map[string]int
	used         map[string]struct{}
}

func newSentimentLoop(targets []sentiment.Sentiment, claimed map[string]struct{}, quota, artistCap int) *sentimentLoop {
	l := &sentimentLoop{
		quota:        quota,
		artistCap:    artistCap,
		targets:      targets,
		counts:       make(map[string]int, len(targets)),
		artistCounts: make(map[string]int),
		used:         make(map[string]struct{}, len(claimed)),
	}
	for id := range claimed {
		l.used[id] = struct{}{}
	}
	return l
}

// stillNeeded sums the per-sentiment shortfalls.
func (l *sentimentLoop) stillNeeded() int {
	n := 0
	for _, t := range l.targets {
		if short := l.quota - l.counts[t.Name]; short > 0 {
			n += short
		}
	}
	return n
}

// unsatisfied returns the sentiments still below quota.
func (l *sentimentLoop) unsatisfied() []sentiment.Sentiment {
	var out []sentiment.Sentiment
	for _, t := range l.targets {
		if l.counts[t.Name] < l.quota {
			out = append(out, t)
		}
	}
	return out
}

// depletedArtists returns artists at their cap, sorted for stable queries.
func (l *sentimentLoop) depletedArtists() []string {
	var out []string
	for id, n := range l.artistCounts {
		if n >= l.artistCap {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (l *sentimentLoop) usedSongs() []string {
	out := make([]string, 0, len(l.used))
	for id := range l.used {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// accept tries to add a hit. It returns false when the song was already
// used, its artist is depleted, or no passage carries an unsatisfied
// sentiment.
func (l *sentimentLoop) accept(h Hit) (pick, bool) {
	if _, dup := l.used[h.Song.ID]; dup {
		return pick{}, false
	}
	artist := h.Song.PrimaryArtist().ID
	if l.artistCounts[artist] >= l.artistCap {
		return pick{}, false
	}

	open := l.unsatisfied()
	openNames := make(map[string]struct{}, len(open))
	for _, s := range open {
		openNames[s.Name] = struct{}{}
	}
	idx, ok := SelectBestPassage(h.Song.Passages, openNames)
	if !ok || !h.Song.Passages[idx].HasAnySentiment(openNames) {
		return pick{}, false
	}

	passage := toSet(h.Song.Passages[idx].Sentiments)
	var bundles []BundleInfo
	for _, s := range open {
		if _, carries := passage[s.Name]; !carries {
			continue
		}
		l.counts[s.Name]++
		bundles = append(bundles, BundleInfo{
			Type:      TypeSentiment,
			Sentiment: s.Name,
			Group:     string(s.Group),
		})
	}

	l.used[h.Song.ID] = struct{}{}
	l.artistCounts[artist]++
	return pick{result: resultFor(h, idx, TypeSentiment), bundles: bundles}, true
}

// sentimentPhase picks today's target sentiments and fills their quotas
// with a bounded search-refine loop.
func (r *run) sentimentPhase(ctx context.Context) ([]pick, error) {
	history := r.state.history
	if history.Recent.Empty() && len(history.TopSongs) == 0 {
		r.insufficientData("no listening history")
		return nil, nil
	}

	boosts := BuildBoostsWith(history.Recent, r.cfg.SongThresholds, r.cfg.ArtistThresholds)
	popularity := boosts.Popularity

	buckets, err := r.engine.searcher.Aggregate(ctx, AggregateRequest{
		Index:      r.cfg.Index,
		Boosts:     boosts.Boosts(),
		Popularity: &popularity,
		BoostMode:  BoostModeSum,
		GroupBy:    FieldPassageSentiments,
		Filter:     Filter{ExcludeSongIDs: r.claimedSongs()},
	})
	if err != nil {
		return nil, backendError("sentiment aggregation", err)
	}

	scored := ScoredSentimentsFromBuckets(r.engine.catalog, buckets)
	previous := recentGroupSet(r.state.recentGroups, r.cfg.Sentiment.RecentGroupsWindow)
	selection := SelectSentimentGroups(r.rng, scored, previous)
	if selection == nil {
		r.insufficientData("no scored sentiments")
		return nil, nil
	}

	r.meta.SentimentGroups = selection.GroupNames()
	r.meta.TargetSentiments = selection.Names()

	cfg := r.cfg.Sentiment
	loop := newSentimentLoop(selection.Flatten(), r.claimed, cfg.Quota, cfg.ArtistCap)

	queryBoosts := boosts.Boosts()
	if len(r.state.seenSongs) > 0 {
		queryBoosts = append(queryBoosts, Boost{
			Field:  FieldSongID,
			Values: r.state.seenSongs,
			Negate: true,
			Weight: boosts.MaxBoost,
		})
	}

	var picks []pick
	iterations := 0
	for iterations < cfg.MaxIterations {
		needed := loop.stillNeeded()
		if needed == 0 {
			break
		}
		iterations++

		open := loop.unsatisfied()
		names := make([]string, len(open))
		for i, s := range open {
			names[i] = s.Name
		}

		hits, err := r.search(ctx, "sentiment passages", SearchRequest{
			Filter: Filter{
				Sentiments:       names,
				ExcludeSongIDs:   loop.usedSongs(),
				ExcludeArtistIDs: loop.depletedArtists(),
			},
			Boosts:     queryBoosts,
			Popularity: &popularity,
			BoostMode:  BoostModeSum,
			Size:       2 * needed,
		})
		if err != nil {
			return nil, err
		}

		added := 0
		for _, h := range hits {
			p, ok := loop.accept(h)
			if !ok {
				continue
			}
			picks = append(picks, p)
			added++
		}

		r.logger.Debug().
			Int("iteration", iterations).
			Int("hits", len(hits)).
			Int("added", added).
			Int("still_needed", loop.stillNeeded()).
			Msg("sentiment search round")

		if added == 0 {
			break
		}
	}

	r.meta.SentimentIterations = iterations
	r.meta.SentimentCounts = make(map[string]int, len(loop.targets))
	for _, t := range loop.targets {
		r.meta.SentimentCounts[t.Name] = loop.counts[t.Name]
	}
	metrics.RecordSentimentLoop(iterations, loop.stillNeeded())

	r.claim(picks)
	return picks, nil
}

func (r *run) insufficientData(reason string) {
	r.meta.InsufficientData = true
	metrics.InsufficientDataTotal.Inc()
	r.logger.Info().Err(ErrInsufficientData).Str("reason", reason).Msg("skipping sentiment phase")
}
