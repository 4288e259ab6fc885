// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package fallback

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Outcome sources.
const (
	SourceLocal    = "local"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// Outcome is the combined result of a local lookup and, when needed, an
// external search.
type Outcome struct {
	// Source is SourceLocal, SourceFallback or SourceNone.
	Source string `json:"source"`

	// Query is the title as requested.
	Query string `json:"query"`

	// Local is the engine response. Always set unless the engine failed.
	Local *recommend.Response `json:"local,omitempty"`

	// Movies are external results, set only when Source is SourceFallback.
	Movies []Movie `json:"movies,omitempty"`
}

// Titles returns the recommended or found titles.
func (o *Outcome) Titles() []string {
	switch o.Source {
	case SourceLocal:
		return o.Local.Titles()
	case SourceFallback:
		out := make([]string, len(o.Movies))
		for i, m := range o.Movies {
			out[i] = m.Title
		}
		return out
	default:
		return []string{}
	}
}

// LocalRecommender is the subset of recommend.Engine used here.
type LocalRecommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// Recommender answers from the local index and falls back to an external
// provider when the title is unknown.
type Recommender struct {
	local    LocalRecommender
	provider Provider
	logger   zerolog.Logger
}

// NewRecommender composes an engine with a provider. provider may be nil, in
// which case unknown titles yield SourceNone.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRecommender(local LocalRecommender, provider Provider, logger zerolog.Logger) *Recommender {
	return &Recommender{
		local:    local,
		provider: provider,
		logger:   logger.With().Str("component", "fallback").Logger(),
	}
}

// RecommendOrSearch returns local recommendations for title, or external
// search results when title is not in the catalog. A non-empty local result
// never triggers the provider. Provider errors are returned.
func (r *Recommender) RecommendOrSearch(ctx context.Context, title string, k int) (*Outcome, error) {
	resp, err := r.local.Recommend(ctx, recommend.Request{Title: title, K: k})
	if err != nil {
		return nil, err
	}

	out := &Outcome{Query: title, Local: resp}
	if len(resp.Items) > 0 {
		out.Source = SourceLocal
		return out, nil
	}

	if r.provider == nil {
		out.Source = SourceNone
		return out, nil
	}

	r.logger.Debug().
		Str("query", title).
		Bool("matched", resp.Matched).
		Str("provider", r.provider.Name()).
		Msg("no local recommendations, searching externally")

	movies, err := r.provider.Search(ctx, title)
	if err != nil {
		return out, fmt.Errorf("search %s: %w", r.provider.Name(), err)
	}
	if len(movies) == 0 {
		out.Source = SourceNone
		return out, nil
	}

	if k > 0 && len(movies) > k {
		movies = movies[:k]
	}
	out.Source = SourceFallback
	out.Movies = movies
	return out, nil
}
