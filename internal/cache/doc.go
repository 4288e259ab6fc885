// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package cache provides a thread-safe, size-bounded LRU cache with TTL.

It is used to memoise external lookups, such as movie search results and
trailer URLs from the fallback provider, so that repeated queries for a title
that is missing from the local catalog do not hit the remote API each time.

# Usage

	c := cache.NewLRU[[]fallback.Movie](512, 10*time.Minute)
	if movies, ok := c.Get(query); ok {
	    return movies, nil
	}
	movies, err := fetch(ctx, query)
	if err == nil {
	    c.Add(query, movies)
	}

# Semantics

  - Get, Add and Remove are O(1).
  - When the cache is full, Add evicts the least recently used entry.
  - Expired entries are removed lazily on Get, or in bulk by CleanupExpired.

All methods are safe for concurrent use.
*/
package cache
