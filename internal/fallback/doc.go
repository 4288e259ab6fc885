// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package fallback searches an external movie database when a title is not in
the local catalog.

The recommendation engine signals "not found" with an unmatched, empty
response. Recommender turns that signal into an explicit Outcome: results
come from the local index, from the external Provider, or from nowhere.

# TMDb

TMDbClient talks to The Movie Database v3 API:

  - GET /search/movie for title search
  - GET /movie/{id}/videos for trailer lookup

Requests are paced with golang.org/x/time/rate, guarded by a circuit breaker
and memoised in an LRU cache. Responses are decoded with goccy/go-json.

# Usage

	client, err := fallback.NewTMDbClient(fallback.TMDbConfig{APIKey: key}, logger)
	rec := fallback.NewRecommender(engine, client, logger)

	out, err := rec.RecommendOrSearch(ctx, "Some Title", 5)
	switch out.Source {
	case fallback.SourceLocal:
	    // out.Titles from the embedding index
	case fallback.SourceFallback:
	    // out.Movies from TMDb
	case fallback.SourceNone:
	    // nothing anywhere
	}
*/
package fallback
