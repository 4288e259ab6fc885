// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package app assembles the recommendation components from configuration.
// Both the server and the CLI build their engine through Build so the two
// binaries share one cache and one set of defaults.
package app

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/embedcache"
	"github.com/tomtom215/reelmatch/internal/embedding"
	"github.com/tomtom215/reelmatch/internal/fallback"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/vectorstore"
)

// Components holds everything built from a Config.
type Components struct {
	Engine      *recommend.Engine
	Encoder     embedding.Encoder
	Store       embedcache.Store
	Recommender *fallback.Recommender

	// TMDb is nil when the fallback is disabled.
	TMDb *fallback.TMDbClient

	closers []func() error
}

// Build wires the encoder, cache store, mirrors, engine and fallback.
// No snapshot is built; callers run Engine.Rebuild themselves.
// On error every resource opened so far is released.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func Build(cfg *config.Config, logger zerolog.Logger) (_ *Components, err error) {
	c := &Components{}
	defer func() {
		if err != nil {
			if closeErr := c.Close(); closeErr != nil {
				logger.Warn().Err(closeErr).Msg("failed to release partially built components")
			}
		}
	}()

	c.Encoder, err = embedding.New(encoderConfig(cfg), logger)
	if err != nil {
		if errors.Is(err, embedding.ErrEncoderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", embedding.ErrEncoderUnavailable, err)
	}

	if err = c.buildStore(cfg, logger); err != nil {
		return nil, err
	}

	publishers, err := c.buildPublishers(cfg, logger)
	if err != nil {
		return nil, err
	}

	c.Engine, err = recommend.NewEngine(EngineConfig(cfg), recommend.Sources{
		CatalogPath: cfg.Catalog.Path,
		Encoder:     c.Encoder,
		Store:       c.Store,
		Publishers:  publishers,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	var provider fallback.Provider
	if cfg.Fallback.Enabled {
		c.TMDb, err = fallback.NewTMDbClient(TMDbConfig(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("create fallback provider: %w", err)
		}
		provider = c.TMDb
	}
	c.Recommender = fallback.NewRecommender(c.Engine, provider, logger)

	logger.Info().
		Str("catalog", cfg.Catalog.Path).
		Str("encoder", c.Encoder.Model()).
		Str("cache_backend", c.Store.Backend()).
		Int("publishers", len(publishers)).
		Bool("fallback", cfg.Fallback.Enabled).
		Msg("components initialized")

	return c, nil
}

// Close releases the cache database and mirror connections.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (c *Components) buildStore(cfg *config.Config, logger zerolog.Logger) error {
	switch cfg.Cache.Backend {
	case config.CacheBackendBadger:
		db, err := embedcache.OpenBadger(cfg.Cache.BadgerDir)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, closeBadger(db))
		c.Store = embedcache.NewBadgerStore(db, cfg.Cache.Name, logger)
	default:
		c.Store = embedcache.NewFileStore(cfg.Cache.Path, logger)
	}
	return nil
}

func closeBadger(db *badger.DB) func() error {
	return func() error {
		if err := db.Close(); err != nil {
			return fmt.Errorf("close badger: %w", err)
		}
		return nil
	}
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (c *Components) buildPublishers(cfg *config.Config, logger zerolog.Logger) ([]recommend.Publisher, error) {
	if !cfg.Qdrant.Enabled {
		return nil, nil
	}
	q, err := vectorstore.NewQdrantPublisher(vectorstore.Config{
		Host:       cfg.Qdrant.Host,
		Port:       cfg.Qdrant.Port,
		Collection: cfg.Qdrant.Collection,
		BatchSize:  cfg.Qdrant.BatchSize,
	}, logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, q.Close)
	return []recommend.Publisher{q}, nil
}

// EngineConfig maps application config onto the engine's limits.
func EngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		Limits: recommend.LimitsConfig{
			DefaultK:       cfg.Recommend.DefaultK,
			MaxK:           cfg.Recommend.MaxK,
			MaxTitleLength: cfg.Recommend.MaxTitleLength,
		},
		Build: recommend.BuildConfig{
			Timeout: cfg.Recommend.BuildTimeout,
		},
	}
}

func encoderConfig(cfg *config.Config) embedding.Config {
	e := cfg.Encoder
	return embedding.Config{
		Provider:   e.Provider,
		Model:      e.Model,
		BaseURL:    e.BaseURL,
		APIKey:     e.APIKey,
		Dimensions: e.Dimensions,
		BatchSize:  e.BatchSize,
		Timeout:    e.Timeout,
		MaxRetries: e.MaxRetries,
		RateLimit:  e.RateLimit,
	}
}

// TMDbConfig maps application config onto the TMDb client settings.
func TMDbConfig(cfg *config.Config) fallback.TMDbConfig {
	f := cfg.Fallback
	return fallback.TMDbConfig{
		APIKey:    f.TMDbAPIKey,
		BaseURL:   f.BaseURL,
		Language:  f.Language,
		Timeout:   f.Timeout,
		RateLimit: f.RateLimit,
		CacheSize: f.CacheSize,
		CacheTTL:  f.CacheTTL,
	}
}
