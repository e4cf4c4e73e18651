// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/moodlyrics/internal/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed FIXTURE",
	Short: "Load songs, artists and listening histories from a fixture",
	Long: `Seed indexes the fixture's songs into OpenSearch and writes its artist
profiles and listening histories to the Badger store. The songs index is
created with its mapping if it does not exist yet.

The fixture may be YAML or JSON. SEARCH_URL must be set.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Search.URL == "" {
		return errNoIndex
	}

	fx, err := readFixture(args[0])
	if err != nil {
		return err
	}

	c, err := buildComponents(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logging.Err(err).Msg("error closing store")
		}
	}()

	ctx := cmd.Context()
	if err := c.client.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	counts, err := fx.apply(ctx, c.songs(), c.store)
	if err != nil {
		return err
	}

	logging.Info().
		Int("songs", counts.Songs).
		Int("artists", counts.Artists).
		Int("histories", counts.Histories).
		Msg("fixture seeded")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(counts)
}
