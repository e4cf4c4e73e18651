// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/recommend"
)

const artistCacheName = "artists"

// Config sizes the artist profile cache.
type Config struct {
	// ArtistCapacity is the maximum number of cached profiles. Zero disables the cache.
	ArtistCapacity int `koanf:"artist_capacity" validate:"min=0"`

	// ArtistTTL bounds how stale a cached profile may be.
	ArtistTTL time.Duration `koanf:"artist_ttl" validate:"min=0"`
}

// DefaultConfig returns the cache defaults.
func DefaultConfig() Config {
	return Config{
		ArtistCapacity: 5000,
		ArtistTTL:      10 * time.Minute,
	}
}

// ArtistDirectory caches artist profiles in front of another directory.
// Unknown ids are not cached, so newly seeded artists show up on the next
// lookup.
type ArtistDirectory struct {
	next  recommend.ArtistDirectory
	cache *LRU[recommend.ArtistProfile]
}

var _ recommend.ArtistDirectory = (*ArtistDirectory)(nil)

// NewArtistDirectory wraps next with an LRU of the given size and TTL.
func NewArtistDirectory(next recommend.ArtistDirectory, capacity int, ttl time.Duration) *ArtistDirectory {
	return &ArtistDirectory{
		next:  next,
		cache: NewLRU[recommend.ArtistProfile](capacity, ttl),
	}
}

// GetArtists returns profiles in the order of ids, fetching only the ids
// missing from the cache.
func (d *ArtistDirectory) GetArtists(ctx context.Context, ids []string) ([]recommend.ArtistProfile, error) {
	found := make(map[string]recommend.ArtistProfile, len(ids))
	var missing []string
	for _, id := range ids {
		if _, dup := found[id]; dup {
			continue
		}
		if p, ok := d.cache.Get(id); ok {
			found[id] = p
			continue
		}
		missing = append(missing, id)
	}
	hits := len(found)

	if len(missing) > 0 {
		fetched, err := d.next.GetArtists(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range fetched {
			d.cache.Add(p.ID, p)
			found[p.ID] = p
		}
	}
	metrics.RecordCacheLookup(artistCacheName, hits, len(missing), d.cache.Len())

	out := make([]recommend.ArtistProfile, 0, len(found))
	emitted := make(map[string]struct{}, len(found))
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			continue
		}
		if _, dup := emitted[id]; dup {
			continue
		}
		emitted[id] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// Invalidate drops a cached profile, typically after it was rewritten.
func (d *ArtistDirectory) Invalidate(id string) {
	d.cache.Remove(id)
}
