// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package sentiment holds the fixed sentiment vocabulary used to label lyric
// passages.
//
// The catalog is embedded in the binary and parsed once. It is never mutated
// after loading, so a *Catalog may be shared freely between goroutines.
//
//	cat := sentiment.Default()
//	s, ok := cat.Lookup("euphoria")
//	// s.Group == sentiment.GroupBody, s.Polarity == sentiment.PolarityPositive
package sentiment

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Group is one of the eight thematic sentiment clusters.
type Group string

// Sentiment groups.
const (
	GroupBody  Group = "body"
	GroupEyes  Group = "eyes"
	GroupGut   Group = "gut"
	GroupHeart Group = "heart"
	GroupMind  Group = "mind"
	GroupSkin  Group = "skin"
	GroupSoul  Group = "soul"
	GroupSpine Group = "spine"
)

// AllGroups lists every group in canonical order.
var AllGroups = []Group{
	GroupBody, GroupEyes, GroupGut, GroupHeart,
	GroupMind, GroupSkin, GroupSoul, GroupSpine,
}

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	for _, known := range AllGroups {
		if g == known {
			return true
		}
	}
	return false
}

// Polarity classifies a sentiment as positive, negative or mixed.
type Polarity string

// Polarities.
const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityMixed    Polarity = "mixed"
)

// Valid reports whether p is a known polarity.
func (p Polarity) Valid() bool {
	switch p {
	case PolarityPositive, PolarityNegative, PolarityMixed:
		return true
	default:
		return false
	}
}

// Sentiment is an immutable catalog entry.
type Sentiment struct {
	Name     string   `json:"name" yaml:"name"`
	Group    Group    `json:"group" yaml:"group"`
	Polarity Polarity `json:"polarity" yaml:"polarity"`
}

// IsNegative reports whether the sentiment has negative polarity.
// Mixed sentiments are not negative.
func (s Sentiment) IsNegative() bool {
	return s.Polarity == PolarityNegative
}

// ErrEmptyCatalog is returned when a catalog source defines no sentiments.
var ErrEmptyCatalog = errors.New("sentiment catalog is empty")

// Catalog is the fixed, read-only set of known sentiments.
type Catalog struct {
	ordered []Sentiment
	byName  map[string]Sentiment
	byGroup map[Group][]Sentiment
}

//go:embed catalog.yaml
var embeddedCatalog string

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which can only happen with a broken build.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Load(strings.NewReader(embeddedCatalog))
		if err != nil {
			panic(fmt.Sprintf("sentiment: invalid embedded catalog: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

type catalogFile struct {
	Groups map[Group][]struct {
		Name     string   `yaml:"name"`
		Polarity Polarity `yaml:"polarity"`
	} `yaml:"groups"`
}

// Load parses a YAML catalog. Groups are read in canonical order so that the
// resulting sentiment order does not depend on map iteration.
func Load(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	for g := range f.Groups {
		if !g.Valid() {
			return nil, fmt.Errorf("unknown group %q", g)
		}
	}

	var entries []Sentiment
	for _, g := range AllGroups {
		for _, e := range f.Groups[g] {
			entries = append(entries, Sentiment{Name: e.Name, Group: g, Polarity: e.Polarity})
		}
	}
	return New(entries)
}

// New builds a catalog from explicit entries. Names must be unique.
func New(entries []Sentiment) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		ordered: make([]Sentiment, 0, len(entries)),
		byName:  make(map[string]Sentiment, len(entries)),
		byGroup: make(map[Group][]Sentiment),
	}
	for _, s := range entries {
		s.Name = strings.ToLower(strings.TrimSpace(s.Name))
		if s.Name == "" {
			return nil, errors.New("sentiment with empty name")
		}
		if !s.Group.Valid() {
			return nil, fmt.Errorf("sentiment %q: unknown group %q", s.Name, s.Group)
		}
		if !s.Polarity.Valid() {
			return nil, fmt.Errorf("sentiment %q: unknown polarity %q", s.Name, s.Polarity)
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate sentiment %q", s.Name)
		}
		c.ordered = append(c.ordered, s)
		c.byName[s.Name] = s
		c.byGroup[s.Group] = append(c.byGroup[s.Group], s)
	}
	return c, nil
}

// Lookup returns the sentiment with the given name. Matching is
// case-insensitive.
func (c *Catalog) Lookup(name string) (Sentiment, bool) {
	s, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Known filters names down to catalog entries, dropping unknown names and
// duplicates while keeping the input order.
func (c *Catalog) Known(names []string) []Sentiment {
	out := make([]Sentiment, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		s, ok := c.Lookup(n)
		if !ok {
			continue
		}
		if _, dup := seen[s.Name]; dup {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
	}
	return out
}

// All returns every sentiment in catalog order.
func (c *Catalog) All() []Sentiment {
	out := make([]Sentiment, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// InGroup returns the sentiments belonging to g.
func (c *Catalog) InGroup(g Group) []Sentiment {
	src := c.byGroup[g]
	out := make([]Sentiment, len(src))
	copy(out, src)
	return out
}

// Len returns the number of sentiments in the catalog.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
