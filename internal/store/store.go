// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/recommend"
)

const (
	listensKeyPrefix     = "listens:"
	impressionsKeyPrefix = "impressions:"
	artistKeyPrefix      = "artist:"
)

// Config configures the Badger store.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path     string `koanf:"path" validate:"required_without=InMemory"`
	InMemory bool   `koanf:"in_memory"`

	SyncWrites bool `koanf:"sync_writes"`

	// ImpressionLimit caps each impression list; the oldest entries drop first.
	ImpressionLimit int `koanf:"impression_limit" validate:"min=1"`

	GCInterval time.Duration `koanf:"gc_interval" validate:"min=0"`
	GCRatio    float64       `koanf:"gc_ratio" validate:"gt=0,lt=1"`
}

// DefaultConfig returns the store defaults.
func DefaultConfig() Config {
	return Config{
		Path:            "/data/moodlyrics",
		ImpressionLimit: 500,
		GCInterval:      10 * time.Minute,
		GCRatio:         0.5,
	}
}

// Store is the Badger-backed user state store.
type Store struct {
	db     *badger.DB
	config Config
	logger zerolog.Logger
}

var (
	_ recommend.HistoryStore    = (*Store)(nil)
	_ recommend.ImpressionStore = (*Store)(nil)
	_ recommend.ArtistDirectory = (*Store)(nil)
)

// Open opens (or creates) the store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.ImpressionLimit < 1 {
		return nil, errors.New("impression limit must be at least 1")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		config: cfg,
		logger: logger.With().Str("component", "store").Logger(),
	}
	s.logger.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("store opened")
	return s, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetListeningHistory implements recommend.HistoryStore.
// Unknown users yield recommend.ErrUserNotFound.
func (s *Store) GetListeningHistory(ctx context.Context, userID string) (*recommend.ListeningHistory, error) {
	start := time.Now()
	var history recommend.ListeningHistory
	err := s.get(ctx, listensKey(userID), &history)
	if errors.Is(err, badger.ErrKeyNotFound) {
		err = recommend.ErrUserNotFound
	}
	metrics.RecordStoreOperation("get_history", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// PutListeningHistory replaces a user's history.
func (s *Store) PutListeningHistory(ctx context.Context, userID string, history *recommend.ListeningHistory) error {
	start := time.Now()
	err := s.put(ctx, listensKey(userID), history)
	metrics.RecordStoreOperation("put_history", time.Since(start), err)
	return err
}

// GetImpressions implements recommend.ImpressionStore. A user with no
// impressions under key gets an empty list.
func (s *Store) GetImpressions(ctx context.Context, userID, key string) ([]string, error) {
	start := time.Now()
	var ids []string
	err := s.get(ctx, impressionsKey(userID, key), &ids)
	if errors.Is(err, badger.ErrKeyNotFound) {
		err = nil
	}
	metrics.RecordStoreOperation("get_impressions", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AppendImpressions records ids as just seen. Ids already present move to
// the newest end; the list is trimmed to the configured limit.
func (s *Store) AppendImpressions(ctx context.Context, userID, key string, ids []string) error {
	start := time.Now()
	err := s.update(ctx, func(txn *badger.Txn) error {
		k := impressionsKey(userID, key)
		var current []string
		if err := getTxn(txn, k, &current); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		next := mergeImpressions(current, ids, s.config.ImpressionLimit)
		return setTxn(txn, k, next)
	})
	metrics.RecordStoreOperation("append_impressions", time.Since(start), err)
	return err
}

// GetArtists implements recommend.ArtistDirectory. Profiles come back in
// the order requested; unknown ids are skipped.
func (s *Store) GetArtists(ctx context.Context, ids []string) ([]recommend.ArtistProfile, error) {
	start := time.Now()
	out := make([]recommend.ArtistProfile, 0, len(ids))
	err := s.view(ctx, func(txn *badger.Txn) error {
		for _, id := range ids {
			var p recommend.ArtistProfile
			err := getTxn(txn, artistKey(id), &p)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	metrics.RecordStoreOperation("get_artists", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutArtist adds or replaces an artist profile.
func (s *Store) PutArtist(ctx context.Context, profile recommend.ArtistProfile) error {
	if profile.ID == "" {
		return errors.New("artist id is required")
	}
	start := time.Now()
	err := s.put(ctx, artistKey(profile.ID), profile)
	metrics.RecordStoreOperation("put_artist", time.Since(start), err)
	return err
}

// Ping verifies the database is open.
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("store is closed")
	}
	return ctx.Err()
}

func mergeImpressions(current, seen []string, limit int) []string {
	out := make([]string, 0, len(current)+len(seen))
	for _, id := range current {
		if !slices.Contains(seen, id) {
			out = append(out, id)
		}
	}
	for _, id := range seen {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (s *Store) get(ctx context.Context, key []byte, v any) error {
	return s.view(ctx, func(txn *badger.Txn) error {
		return getTxn(txn, key, v)
	})
}

func (s *Store) put(ctx context.Context, key []byte, v any) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return setTxn(txn, key, v)
	})
}

func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

func getTxn(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		return nil
	})
}

func setTxn(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, recommend.ErrUserNotFound) {
		return nil
	}
	return err
}

func listensKey(userID string) []byte {
	return []byte(listensKeyPrefix + userID)
}

func impressionsKey(userID, key string) []byte {
	return []byte(impressionsKeyPrefix + userID + ":" + key)
}

func artistKey(id string) []byte {
	return []byte(artistKeyPrefix + id)
}
