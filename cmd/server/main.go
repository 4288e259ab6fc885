// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package main is the ReelMatch server.
//
// Startup order:
//
//  1. Configuration: defaults, config.yaml and environment (Koanf v2)
//  2. Logging: zerolog from the logging section
//  3. Components: encoder, embedding cache, optional Qdrant mirror, engine
//  4. Initial index build, synchronously; an unavailable encoder is fatal
//  5. Supervisor tree: index refresh and the ops HTTP server
//
// The server handles SIGINT and SIGTERM by canceling the tree, which drains
// the HTTP server within server.shutdown_timeout.
//
// Example:
//
//	export CATALOG_PATH=/data/movies.csv
//	export CACHE_PATH=/data/embeddings.cache
//	export EMBEDDING_PROVIDER=openai
//	export EMBEDDING_MODEL=text-embedding-3-small
//	export EMBEDDING_API_KEY=sk-...
//	./reelmatch-server
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/app"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("ReelMatch server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logger.Info().
		Str("catalog", cfg.Catalog.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Str("encoder", cfg.Encoder.Provider).
		Bool("fallback", cfg.Fallback.Enabled).
		Bool("qdrant", cfg.Qdrant.Enabled).
		Msg("Starting ReelMatch server")

	components, err := app.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Error().Err(err).Msg("Error releasing components")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Synchronous: an unavailable encoder must stop startup.
	start := time.Now()
	if err := components.Engine.Rebuild(ctx); err != nil {
		return fmt.Errorf("initial index build: %w", err)
	}
	stats := components.Engine.Stats()
	logger.Info().
		Int("entries", stats.Entries).
		Int("dimensions", stats.Dimensions).
		Str("source", stats.Source).
		Dur("duration", time.Since(start)).
		Msg("Initial index ready")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	router := api.NewRouter(components.Engine, api.Config{
		RateLimit:       cfg.Server.RateLimit,
		RateLimitWindow: cfg.Server.RateLimitWindow,
		CORSOrigins:     cfg.Server.CORSOrigins,
	}, logger)
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddIndexService(services.NewIndexRefreshService(components.Engine, cfg.Refresh.Interval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logger))

	logger.Info().Str("addr", addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logger.Info().Msg("ReelMatch server stopped")
	return nil
}
