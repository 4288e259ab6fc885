// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore keeps the cache in a single file.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger zerolog.Logger
}

// NewFileStore returns a store backed by path. The file need not exist.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger.With().Str("component", "embedcache").Str("backend", BackendFile).Logger(),
	}
}

// Path returns the cache file path.
func (s *FileStore) Path() string {
	return s.path
}

// Backend implements Store.
func (s *FileStore) Backend() string {
	return BackendFile
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (*Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.RecordCacheOp(BackendFile, "load", "miss")
		return nil, nil
	}
	if err != nil {
		metrics.RecordCacheOp(BackendFile, "load", "error")
		return nil, fmt.Errorf("read embedding cache: %w", err)
	}

	entry, err := Decode(data)
	if err != nil {
		metrics.RecordCacheOp(BackendFile, "load", "corrupt")
		s.logger.Warn().Err(err).Str("path", s.path).Msg("ignoring unreadable embedding cache")
		return nil, nil
	}

	metrics.RecordCacheOp(BackendFile, "load", "hit")
	return entry, nil
}

// Save implements Store. The record is written to a temporary file in the
// same directory, synced, then renamed over the target while holding the
// sibling lock file.
func (s *FileStore) Save(ctx context.Context, fingerprint string, vectors [][]float32) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.RecordCacheOp(BackendFile, "save", result)
	}()

	data, err := Encode(fingerprint, vectors)
	if err != nil {
		return fmt.Errorf("encode embedding cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock embedding cache: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock embedding cache: %s is held by another writer", s.lock.Path())
	}
	defer func() {
		if uerr := s.lock.Unlock(); uerr != nil {
			s.logger.Warn().Err(uerr).Msg("failed to release cache lock")
		}
	}()

	if err := writeAtomic(s.path, data); err != nil {
		return err
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("rows", len(vectors)).
		Int("bytes", len(data)).
		Msg("embedding cache written")
	return nil
}

// writeAtomic writes data to a temp file beside path and renames it into place.
// The temp file is removed on every failure path.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp cache file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
