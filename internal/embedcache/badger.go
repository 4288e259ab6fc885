// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedcache

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Key prefix for BadgerDB storage
const embeddingsKeyPrefix = "embeddings:"

// BadgerStore keeps the cache under a single key in a BadgerDB database.
// The database handle is owned by the caller.
type BadgerStore struct {
	db     *badger.DB
	key    []byte
	logger zerolog.Logger
}

// NewBadgerStore returns a store writing to key "embeddings:<name>".
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerStore(db *badger.DB, name string, logger zerolog.Logger) *BadgerStore {
	return &BadgerStore{
		db:     db,
		key:    []byte(embeddingsKeyPrefix + name),
		logger: logger.With().Str("component", "embedcache").Str("backend", BackendBadger).Logger(),
	}
}

// OpenBadger opens (or creates) a BadgerDB database in dir with badger's
// internal logging silenced.
func OpenBadger(dir string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return db, nil
}

// Backend implements Store.
func (s *BadgerStore) Backend() string {
	return BackendBadger
}

// Load implements Store.
func (s *BadgerStore) Load(_ context.Context) (*Entry, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordCacheOp(BackendBadger, "load", "miss")
		return nil, nil
	}
	if err != nil {
		metrics.RecordCacheOp(BackendBadger, "load", "error")
		return nil, fmt.Errorf("get embeddings: %w", err)
	}

	entry, err := Decode(data)
	if err != nil {
		metrics.RecordCacheOp(BackendBadger, "load", "corrupt")
		s.logger.Warn().Err(err).Str("key", string(s.key)).Msg("ignoring unreadable embedding cache")
		return nil, nil
	}

	metrics.RecordCacheOp(BackendBadger, "load", "hit")
	return entry, nil
}

// Save implements Store.
func (s *BadgerStore) Save(_ context.Context, fingerprint string, vectors [][]float32) error {
	data, err := Encode(fingerprint, vectors)
	if err != nil {
		metrics.RecordCacheOp(BackendBadger, "save", "error")
		return fmt.Errorf("encode embedding cache: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, data)
	})
	if err != nil {
		metrics.RecordCacheOp(BackendBadger, "save", "error")
		return fmt.Errorf("set embeddings: %w", err)
	}

	metrics.RecordCacheOp(BackendBadger, "save", "ok")
	return nil
}

var _ Store = (*BadgerStore)(nil)
