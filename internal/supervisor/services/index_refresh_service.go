// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Refresh check results recorded in metrics.
const (
	RefreshUnchanged = "unchanged"
	RefreshRebuilt   = "rebuilt"
	RefreshError     = "error"
)

// IndexEngine is the part of recommend.Engine the refresh loop drives.
type IndexEngine interface {
	NeedsRebuild() (bool, error)
	Rebuild(ctx context.Context) error
}

// IndexRefreshService polls the catalog fingerprint and rebuilds the index
// when the file changes. A failed rebuild leaves the previous snapshot active
// and is retried on the next tick.
type IndexRefreshService struct {
	engine   IndexEngine
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewIndexRefreshService creates the service. A non-positive interval
// disables polling; Serve then just waits for shutdown.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexRefreshService(engine IndexEngine, interval time.Duration, logger zerolog.Logger) *IndexRefreshService {
	return &IndexRefreshService{
		engine:   engine,
		interval: interval,
		logger:   logger.With().Str("service", "index-refresh").Logger(),
		name:     "index-refresh-service",
	}
}

// Serve implements suture.Service.
func (s *IndexRefreshService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info().Msg("index refresh disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("index refresh service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("index refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check runs one fingerprint comparison and rebuild if needed.
func (s *IndexRefreshService) check(ctx context.Context) {
	stale, err := s.engine.NeedsRebuild()
	if err != nil {
		metrics.RecordRefreshCheck(RefreshError)
		s.logger.Warn().Err(err).Msg("catalog fingerprint check failed")
		return
	}
	if !stale {
		metrics.RecordRefreshCheck(RefreshUnchanged)
		return
	}

	start := time.Now()
	s.logger.Info().Msg("catalog changed, rebuilding index")
	if err := s.engine.Rebuild(ctx); err != nil {
		metrics.RecordRefreshCheck(RefreshError)
		s.logger.Warn().Err(err).Msg("index rebuild failed, keeping previous snapshot")
		return
	}
	metrics.RecordRefreshCheck(RefreshRebuilt)
	s.logger.Info().Dur("duration", time.Since(start)).Msg("index rebuilt")
}

// String returns the service name for logging.
func (s *IndexRefreshService) String() string {
	return s.name
}
