// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

// Package main is the entry point for the moodlyrics CLI.
//
// Subcommands:
//
//	serve      run the HTTP API under the supervisor tree
//	recommend  compute one recommendation response and print it as JSON
//	seed       load a fixture of songs, artists and listening histories
//	version    print the build version
//
// Configuration is layered by koanf: built-in defaults, then a YAML file
// (--config, CONFIG_PATH, or ./config.yaml), then environment variables.
// See package config for the full list.
//
// When SEARCH_URL is unset the songs index is held in memory, which is only
// useful together with --fixture:
//
//	moodlyrics serve --fixture testdata/fixture.yaml
//	moodlyrics recommend --fixture testdata/fixture.yaml --user u1 --query "rain"
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moodlyrics/internal/config"
	"github.com/tomtom215/moodlyrics/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "moodlyrics",
	Short: "Sentiment-driven lyric passage recommendations",
	Long: `moodlyrics recommends songs together with the lyric passage that best fits
each recommendation: a passage from the user's recent listening, one from a
featured artist, or one matching a sentiment the user has been drawn to.

Songs live in an OpenSearch index; listening histories, impressions and artist
profiles live in an embedded Badger store.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().String("sentiments", "", "sentiment catalog YAML replacing the built-in catalog")
}

// loadConfig reads configuration and initializes the global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logging.Init(cfg.Logging)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Err(err).Msg("command failed")
		os.Exit(1)
	}
}
