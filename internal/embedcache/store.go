// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package embedcache persists computed embeddings keyed by the fingerprint of
// the catalog that produced them.
//
// Loads fail soft: a missing or unreadable blob is reported as (nil, nil) so
// the index builder falls through to a full re-encode. Saves are atomic, so a
// crash mid-write never leaves a partial blob visible to the next load.
//
// Two backends are provided:
//
//   - FileStore: a single binary file written via temp file, fsync and rename,
//     with a sibling lock file serialising concurrent writers
//   - BadgerStore: a key in a BadgerDB database, written in one transaction
//
// Both backends share the same binary record format (see Encode).
package embedcache

import "context"

// Backend names.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Entry is a cached set of embeddings.
type Entry struct {
	// Fingerprint identifies the catalog content the vectors were computed from.
	Fingerprint string

	// Vectors holds one vector per catalog row, in catalog order.
	Vectors [][]float32
}

// Store loads and saves cached embeddings.
type Store interface {
	// Load returns the cached entry, or nil when no usable entry exists.
	// An error is returned only for unexpected I/O failures.
	Load(ctx context.Context) (*Entry, error)

	// Save atomically replaces the cached entry.
	Save(ctx context.Context, fingerprint string, vectors [][]float32) error

	// Backend names the storage backend for logs and metrics.
	Backend() string
}
