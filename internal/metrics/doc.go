// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package metrics exposes Prometheus collectors for ReelMatch.
//
// Collectors are registered on the default registry at package init through
// promauto and served by the ops HTTP router at /metrics. Callers should use
// the Record* helpers rather than touching collectors directly, so label
// values stay within the documented sets.
//
// # Metric Families
//
//   - reelmatch_index_*: embedding index builds, size and dimensionality
//   - reelmatch_embedding_cache_*: cache loads and saves by result
//   - reelmatch_encoder_*: encoder calls, latency and encoded text volume
//   - reelmatch_recommendations_*: recommendation outcomes and latency
//   - reelmatch_fallback_*: external search fallback calls
//   - reelmatch_http_*: ops HTTP requests
//   - circuit_breaker_*: state of every gobreaker instance
//
// # Label Values
//
// Index build source: "cache", "encoder", "empty".
// Cache result: "hit", "miss", "stale", "corrupt", "error", "ok".
// Recommendation outcome: "matched", "unmatched", "invalid", "not_ready".
package metrics
