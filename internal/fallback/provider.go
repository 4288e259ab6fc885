// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package fallback

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when the provider has no credentials.
	ErrNotConfigured = errors.New("fallback provider not configured")

	// ErrProviderUnavailable wraps transport, status and breaker failures.
	ErrProviderUnavailable = errors.New("fallback provider unavailable")
)

// Movie is an externally sourced search result.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	Rating      float64 `json:"rating"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

// Provider searches an external movie database.
type Provider interface {
	// Search returns movies matching query, best match first.
	Search(ctx context.Context, query string) ([]Movie, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}
