// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Compute recommendations for one user and print them as JSON",
	Long: `Recommend runs a single recommendation request against the configured
backends and prints the response. With --fixture the fixture is loaded first,
which makes the command usable without an OpenSearch cluster.

Featured artists given with --artist are resolved from the store; unknown ids
are skipped.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("user", "", "user id (required)")
	recommendCmd.Flags().StringSlice("artist", nil, "featured artist ids, in preference order")
	recommendCmd.Flags().StringSlice("lookup", nil, "song ids to look up")
	recommendCmd.Flags().String("query", "", "free-text lyric search")
	recommendCmd.Flags().String("fixture", "", "fixture to load before recommending")
	_ = recommendCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
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

	if path, _ := cmd.Flags().GetString("fixture"); path != "" {
		fx, err := readFixture(path)
		if err != nil {
			return err
		}
		if _, err := fx.apply(ctx, c.songs(), c.store); err != nil {
			return err
		}
	}

	userID, _ := cmd.Flags().GetString("user")
	artistIDs, _ := cmd.Flags().GetStringSlice("artist")
	lookup, _ := cmd.Flags().GetStringSlice("lookup")
	query, _ := cmd.Flags().GetString("query")

	req := recommend.Request{
		UserID:        userID,
		LookupSongIDs: lookup,
		Query:         strings.TrimSpace(query),
		RequestID:     logging.GenerateRequestID(),
	}
	if len(artistIDs) > 0 {
		artists, err := c.store.GetArtists(ctx, artistIDs)
		if err != nil {
			return fmt.Errorf("resolve artists: %w", err)
		}
		req.FeaturedArtists = artists
	}

	resp, err := c.engine.Recommend(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
