// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements embedding-based "more like this" movie recommendations.
//
// # Architecture
//
// A recommendation request flows through three stages:
//
//   - Resolve: map a free-text title to a catalog row (exact, then
//     case-insensitive substring, lowest index wins)
//   - Rank: cosine similarity of that row's vector against every row, top k+1
//     by score with ties broken by lower index, query row excluded
//   - Map: turn ranked rows back into titles
//
// The vectors live in a Snapshot: an immutable pairing of catalog and
// embeddings built by the Builder. The Builder reuses cached embeddings when
// the catalog fingerprint matches and otherwise encodes every row in one batch
// and writes the cache.
//
// # Concurrency
//
// Engine holds the active Snapshot behind an atomic pointer. Readers load the
// pointer once per request and never lock. Rebuild constructs a complete new
// Snapshot off to the side and swaps it in, so in-flight requests finish
// against the snapshot they started with.
//
// # Fallback Handshake
//
// When a title resolves to no catalog row, Recommend returns a Response with
// Matched=false and no items, and a nil error. Callers are expected to
// consult an external search provider in that case (see package fallback).
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Sources{
//	    CatalogPath: "data/movies.csv",
//	    Encoder:     enc,
//	    Store:       embedcache.NewFileStore("data/embeddings.bin", logger),
//	}, logger)
//	if err := engine.Rebuild(ctx); err != nil {
//	    // encoder unavailable or schema error: fatal at startup
//	}
//
//	resp, err := engine.Recommend(ctx, recommend.Request{Title: "Inception", K: 5})
package recommend
