// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moodlyrics/internal/api"
	"github.com/tomtom215/moodlyrics/internal/logging"
	"github.com/tomtom215/moodlyrics/internal/metrics"
	"github.com/tomtom215/moodlyrics/internal/middleware"
	"github.com/tomtom215/moodlyrics/internal/supervisor"
	"github.com/tomtom215/moodlyrics/internal/supervisor/services"
)

const (
	indexHealthInterval = time.Minute
	readHeaderTimeout   = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recommendation API",
	Long: `Serve starts the HTTP API under a suture supervisor tree together with the
store garbage collector and, when SEARCH_URL is set, the search index
bootstrap. SIGINT and SIGTERM trigger a graceful shutdown.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("fixture", "", "fixture to load at startup (development)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	startTime := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting moodlyrics")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	c, err := buildComponents(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logging.Err(err).Msg("Error closing store")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path, _ := cmd.Flags().GetString("fixture"); path != "" {
		fx, err := readFixture(path)
		if err != nil {
			return err
		}
		counts, err := fx.apply(ctx, c.songs(), c.store)
		if err != nil {
			return err
		}
		logging.Info().Int("songs", counts.Songs).Int("histories", counts.Histories).Msg("Fixture loaded")
	}

	perfMon := middleware.NewPerformanceMonitor(1000)
	handler := api.NewHandler(c.engine, c.store,
		api.WithHealthChecks(c.healthChecks()...),
		api.WithPerformanceMonitor(perfMon),
		api.WithCatalog(c.catalog),
		api.WithVersion(version),
	)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return logging.ContextWithLogger(context.Background(), logging.WithComponent("http"))
		},
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(c.store)
	if c.client != nil {
		tree.AddDataService(services.NewIndexService(c.client, indexHealthInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	go trackUptime(ctx, startTime)

	logging.Info().Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	logging.Info().Msg("Server stopped")
	return nil
}

func trackUptime(ctx context.Context, start time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.AppUptime.Set(time.Since(start).Seconds())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
