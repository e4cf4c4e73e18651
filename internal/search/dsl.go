// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package search

import (
	"github.com/tomtom215/moodlyrics/internal/recommend"
)

// aggName is the name of the terms aggregation in aggregation bodies.
const aggName = "groups"

// maxAggBuckets bounds the terms aggregation. The sentiment vocabulary is
// far smaller, artist ids are not aggregated.
const maxAggBuckets = 1000

type object = map[string]any

// searchBody renders a search request as an OpenSearch query body.
func searchBody(req *recommend.SearchRequest) object {
	body := object{
		"size":  req.Size,
		"query": functionScore(req.Filter, req.Text, req.Boosts, req.Popularity, req.BoostMode, req.RandomSeed),
	}
	return body
}

// aggregateBody renders an aggregation request. Hits are not returned; each
// bucket sums the function_score of its documents.
func aggregateBody(req *recommend.AggregateRequest) object {
	return object{
		"size":  0,
		"query": functionScore(req.Filter, "", req.Boosts, req.Popularity, req.BoostMode, nil),
		"aggs": object{
			aggName: object{
				"terms": object{"field": req.GroupBy, "size": maxAggBuckets},
				"aggs": object{
					"total_score": object{
						"sum": object{"script": object{"source": "_score"}},
					},
				},
			},
		},
	}
}

func functionScore(f recommend.Filter, text string, boosts []recommend.Boost, pop *recommend.PopularityBoost, mode recommend.BoostMode, seed *int64) object {
	functions := make([]object, 0, len(boosts)+2)
	for _, b := range boosts {
		if len(b.Values) == 0 && !b.Negate {
			continue
		}
		functions = append(functions, object{
			"filter": boostFilter(b),
			"weight": b.Weight,
		})
	}
	if pop != nil {
		functions = append(functions, object{
			"field_value_factor": object{
				"field":    pop.Field,
				"factor":   pop.Factor,
				"modifier": "log1p",
				"missing":  0,
			},
			"weight": pop.Weight,
		})
	}
	if seed != nil {
		functions = append(functions, object{
			"random_score": object{"seed": *seed, "field": "_seq_no"},
		})
	}

	if mode == "" {
		mode = recommend.BoostModeSum
	}
	fs := object{
		"query":      boolQuery(f, text),
		"score_mode": "sum",
		"boost_mode": string(mode),
	}
	if len(functions) > 0 {
		fs["functions"] = functions
	}
	return object{"function_score": fs}
}

func boostFilter(b recommend.Boost) object {
	clause := termsClause(b.Field, b.Values)
	if b.Negate {
		return object{"bool": object{"must_not": []object{clause}}}
	}
	return clause
}

// boolQuery builds the base query. Without text every match scores 1 so
// that sum mode adds boosts to a constant base.
func boolQuery(f recommend.Filter, text string) object {
	var filter, mustNot []object
	if len(f.SongIDs) > 0 {
		filter = append(filter, termsClause(recommend.FieldSongID, f.SongIDs))
	}
	if len(f.ArtistIDs) > 0 {
		filter = append(filter, termsClause(recommend.FieldArtistID, f.ArtistIDs))
	}
	if len(f.Sentiments) > 0 {
		filter = append(filter, termsClause(recommend.FieldPassageSentiments, f.Sentiments))
	}
	if len(f.ExcludeSongIDs) > 0 {
		mustNot = append(mustNot, termsClause(recommend.FieldSongID, f.ExcludeSongIDs))
	}
	if len(f.ExcludeArtistIDs) > 0 {
		mustNot = append(mustNot, termsClause(recommend.FieldArtistID, f.ExcludeArtistIDs))
	}

	must := object{"match_all": object{}}
	if text != "" {
		must = object{"match": object{recommend.FieldLyrics: object{"query": text}}}
	}

	b := object{"must": []object{must}}
	if len(filter) > 0 {
		b["filter"] = filter
	}
	if len(mustNot) > 0 {
		b["must_not"] = mustNot
	}
	return object{"bool": b}
}

func termsClause(field string, values []string) object {
	if values == nil {
		values = []string{}
	}
	return object{"terms": object{field: values}}
}

// indexMapping is applied by EnsureIndex. Only the fields that queries touch
// are mapped explicitly; the rest of the song document is stored as-is.
var indexMapping = object{
	"mappings": object{
		"dynamic": false,
		"properties": object{
			"id":         object{"type": "keyword"},
			"name":       object{"type": "text"},
			"popularity": object{"type": "float"},
			"artists": object{
				"properties": object{
					"id":   object{"type": "keyword"},
					"name": object{"type": "text"},
				},
			},
			"passages": object{
				"properties": object{
					"lyrics":     object{"type": "text"},
					"sentiments": object{"type": "keyword"},
				},
			},
		},
	},
}
