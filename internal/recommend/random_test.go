// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package recommend

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestChooseOne(t *testing.T) {
	items := []Weighted[string]{{"a", 1}, {"b", 1}, {"c", 2}}

	tests := []struct {
		name string
		draw float64
		want int
	}{
		{"start of first range", 0, 0},
		{"inside first range", 0.1, 0},
		{"inside second range", 0.3, 1},
		{"inside third range", 0.6, 2},
		{"top of range", 0.999999, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseOne[string](&seqRand{floats: []float64{tt.draw}}, items)
			if got != tt.want {
				t.Errorf("ChooseOne(draw=%v) = %d, want %d", tt.draw, got, tt.want)
			}
		})
	}
}

func TestChooseOne_EdgeCases(t *testing.T) {
	if got := ChooseOne[string](&seqRand{}, nil); got != -1 {
		t.Errorf("ChooseOne(empty) = %d, want -1", got)
	}

	zero := []Weighted[string]{{"a", 0}, {"b", 0}}
	if got := ChooseOne[string](&seqRand{floats: []float64{0.5}}, zero); got != 1 {
		t.Errorf("ChooseOne(all zero) = %d, want last index 1", got)
	}

	// A zero weight key is skipped when a positive one follows it.
	mixed := []Weighted[string]{{"a", 0}, {"b", 3}}
	if got := ChooseOne[string](&seqRand{floats: []float64{0}}, mixed); got != 1 {
		t.Errorf("ChooseOne(zero then positive) = %d, want 1", got)
	}
}

func TestChooseK_Deterministic(t *testing.T) {
	items := []Weighted[string]{{"a", 1}, {"b", 1}, {"c", 1}, {"d", 1}}

	tests := []struct {
		name   string
		floats []float64
		k      int
		want   []string
	}{
		{"always first", []float64{0}, 2, []string{"a", "b"}},
		{"always last", []float64{0.99}, 3, []string{"d", "c", "b"}},
		{"k larger than pool", []float64{0}, 10, []string{"a", "b", "c", "d"}},
		{"middle then first", []float64{0.5, 0}, 2, []string{"c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseK[string](&seqRand{floats: tt.floats}, items, tt.k)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChooseK = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChooseK_DistinctKeys(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // test

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(12)
		k := rng.Intn(15)
		items := make([]Weighted[int], n)
		for i := range items {
			items[i] = Weighted[int]{Key: i, Weight: 0.01 + rng.Float64()*10}
		}

		got := ChooseK[int](rng, items, k)

		if want := min(k, n); len(got) != want {
			t.Fatalf("trial %d: len = %d, want min(%d, %d) = %d", trial, len(got), k, n, want)
		}
		seen := make(map[int]struct{})
		for _, key := range got {
			if key < 0 || key >= n {
				t.Fatalf("trial %d: key %d not in input", trial, key)
			}
			if _, dup := seen[key]; dup {
				t.Fatalf("trial %d: duplicate key %d in %v", trial, key, got)
			}
			seen[key] = struct{}{}
		}
	}
}

func TestChooseK_CollapsesDuplicateKeys(t *testing.T) {
	items := []Weighted[string]{{"a", 1}, {"a", 5}, {"b", 1}}
	got := ChooseK[string](&seqRand{floats: []float64{0}}, items, 5)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ChooseK = %v, want [a b]", got)
	}
}

func TestChooseK_NoDraws(t *testing.T) {
	items := []Weighted[string]{{"a", 1}}
	if got := ChooseK[string](&seqRand{}, items, 0); got != nil {
		t.Errorf("ChooseK(k=0) = %v, want nil", got)
	}
	if got := ChooseK[string](&seqRand{}, nil, 3); got != nil {
		t.Errorf("ChooseK(empty) = %v, want nil", got)
	}
}

func TestChooseK_FavorsHeavyKeys(t *testing.T) {
	rng := rand.New(rand.NewSource(1)) //nolint:gosec // test
	items := []Weighted[string]{{"light", 1}, {"heavy", 99}}

	heavy := 0
	for i := 0; i < 1000; i++ {
		if ChooseK[string](rng, items, 1)[0] == "heavy" {
			heavy++
		}
	}
	if heavy < 950 {
		t.Errorf("heavy chosen %d/1000 times, want >= 950", heavy)
	}
}

func TestChooseK_DoesNotMutateInput(t *testing.T) {
	items := []Weighted[string]{{"a", 1}, {"b", 2}, {"c", 3}}
	orig := append([]Weighted[string](nil), items...)
	ChooseK[string](&seqRand{floats: []float64{0.5}}, items, 2)
	if !reflect.DeepEqual(items, orig) {
		t.Errorf("input mutated: %v, want %v", items, orig)
	}
}
