// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/embedcache"
	"github.com/tomtom215/reelmatch/internal/embedding"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Publisher receives every snapshot the builder produces, cache hits and
// empty catalogs included, for example to mirror it into an external vector
// database. Publishing must be idempotent. Failures are logged, never fatal.
type Publisher interface {
	Publish(ctx context.Context, snap *Snapshot) error
	Name() string
}

// Builder constructs snapshots from a catalog, reusing cached embeddings when
// the catalog fingerprint is unchanged.
type Builder struct {
	encoder    embedding.Encoder
	store      embedcache.Store
	publishers []Publisher
	logger     zerolog.Logger
}

// NewBuilder creates a builder. store may be nil to disable caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(encoder embedding.Encoder, store embedcache.Store, logger zerolog.Logger, publishers ...Publisher) *Builder {
	return &Builder{
		encoder:    encoder,
		store:      store,
		publishers: publishers,
		logger:     logger.With().Str("component", "index-builder").Logger(),
	}
}

// Build returns a snapshot for cat. fingerprint must be the hash of the exact
// bytes cat was parsed from (see catalog.Read).
//
// Cached vectors are adopted without encoding when the stored fingerprint
// equals the current one and the row count agrees. Otherwise every row is
// encoded as "title. description" in a single Encode call and the result is
// written back to the cache. An empty catalog never calls the encoder.
func (b *Builder) Build(ctx context.Context, cat *catalog.Catalog, fingerprint string) (*Snapshot, error) {
	start := time.Now()
	logger := b.logger.With().Str("fingerprint", shortFingerprint(fingerprint)).Int("entries", cat.Len()).Logger()

	if snap := b.fromCache(ctx, cat, fingerprint, logger); snap != nil {
		b.publish(ctx, snap, logger)
		metrics.RecordIndexBuild(SourceCache, time.Since(start), nil)
		logger.Info().Dur("duration", time.Since(start)).Msg("embedding index restored from cache")
		return snap, nil
	}

	if cat.Len() == 0 {
		snap, err := NewSnapshot(cat, [][]float32{}, fingerprint, SourceEmpty, b.encoder.Model())
		if err != nil {
			return nil, err
		}
		b.save(ctx, fingerprint, snap.Vectors(), logger)
		b.publish(ctx, snap, logger)
		metrics.RecordIndexBuild(SourceEmpty, time.Since(start), nil)
		logger.Warn().Msg("catalog is empty; every query will fall back to external search")
		return snap, nil
	}

	logger.Info().Str("model", b.encoder.Model()).Msg("encoding catalog")
	vectors, err := b.encoder.Encode(ctx, cat.Texts())
	if err != nil {
		metrics.RecordIndexBuild(SourceEncoder, time.Since(start), err)
		if !errors.Is(err, embedding.ErrEncoderUnavailable) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", embedding.ErrEncoderUnavailable, err)
		}
		return nil, fmt.Errorf("encode catalog: %w", err)
	}

	snap, err := NewSnapshot(cat, vectors, fingerprint, SourceEncoder, b.encoder.Model())
	if err != nil {
		metrics.RecordIndexBuild(SourceEncoder, time.Since(start), err)
		return nil, fmt.Errorf("encoder output: %w", err)
	}

	b.save(ctx, fingerprint, vectors, logger)
	b.publish(ctx, snap, logger)

	metrics.RecordIndexBuild(SourceEncoder, time.Since(start), nil)
	logger.Info().
		Int("dimensions", snap.Dimensions()).
		Dur("duration", time.Since(start)).
		Msg("embedding index built")
	return snap, nil
}

// fromCache returns a snapshot from the store, or nil on any miss.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (b *Builder) fromCache(ctx context.Context, cat *catalog.Catalog, fingerprint string, logger zerolog.Logger) *Snapshot {
	if b.store == nil {
		return nil
	}

	cached, err := b.store.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("embedding cache unreadable, re-encoding")
		return nil
	}
	if cached == nil {
		logger.Debug().Msg("embedding cache empty")
		return nil
	}
	if cached.Fingerprint != fingerprint {
		metrics.RecordCacheOp(b.store.Backend(), "load", "stale")
		logger.Info().Str("cached_fingerprint", shortFingerprint(cached.Fingerprint)).Msg("embedding cache is stale")
		return nil
	}

	snap, err := NewSnapshot(cat, cached.Vectors, fingerprint, SourceCache, b.encoder.Model())
	if err != nil {
		metrics.RecordCacheOp(b.store.Backend(), "load", "stale")
		logger.Warn().Err(err).Msg("embedding cache does not fit catalog, re-encoding")
		return nil
	}
	return snap
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (b *Builder) save(ctx context.Context, fingerprint string, vectors [][]float32, logger zerolog.Logger) {
	if b.store == nil {
		return
	}
	if err := b.store.Save(ctx, fingerprint, vectors); err != nil {
		logger.Error().Err(err).Str("backend", b.store.Backend()).Msg("failed to write embedding cache")
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (b *Builder) publish(ctx context.Context, snap *Snapshot, logger zerolog.Logger) {
	for _, p := range b.publishers {
		err := p.Publish(ctx, snap)
		metrics.RecordMirrorPublish(p.Name(), err)
		if err != nil {
			logger.Warn().Err(err).Str("sink", p.Name()).Msg("failed to publish snapshot")
		}
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
