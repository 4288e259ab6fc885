// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "time"

// Request is a recommendation query.
type Request struct {
	// Title is the free-text movie title to find neighbours for.
	Title string `json:"title" validate:"notblank"`

	// K is the number of recommendations wanted. Zero selects the default.
	K int `json:"k" validate:"min=0"`

	// RequestID traces the request through logs. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredItem is a recommended movie with its similarity score.
type ScoredItem struct {
	// Index is the catalog row.
	Index int `json:"index"`

	// Title is the catalog title.
	Title string `json:"title"`

	// Score is the cosine similarity to the matched movie, in [-1, 1].
	Score float64 `json:"score"`
}

// Response is the result of a recommendation request.
type Response struct {
	// Query is the title as supplied by the caller.
	Query string `json:"query"`

	// Matched reports whether the query resolved to a catalog row.
	// When false, Items is empty and the caller should fall back to external search.
	Matched bool `json:"matched"`

	// MatchedIndex is the resolved catalog row, or -1.
	MatchedIndex int `json:"matched_index"`

	// MatchedTitle is the title of the resolved row.
	MatchedTitle string `json:"matched_title,omitempty"`

	// Items are the recommendations in descending score order.
	Items []ScoredItem `json:"items"`

	// Metadata describes how the response was produced.
	Metadata ResponseMetadata `json:"metadata"`
}

// Titles returns the recommended titles in rank order.
func (r *Response) Titles() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Title
	}
	return out
}

// ResponseMetadata contains request provenance.
type ResponseMetadata struct {
	// RequestID is the request identifier.
	RequestID string `json:"request_id"`

	// K is the effective K after defaults and clamping.
	K int `json:"k"`

	// Fingerprint identifies the catalog revision that answered.
	Fingerprint string `json:"fingerprint"`

	// LatencyMS is the processing time in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Stats summarises the active snapshot and engine counters.
type Stats struct {
	Ready       bool      `json:"ready"`
	Entries     int       `json:"entries"`
	Dimensions  int       `json:"dimensions"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Source      string    `json:"source,omitempty"`
	Model       string    `json:"model,omitempty"`
	BuiltAt     time.Time `json:"built_at,omitempty"`
	Requests    int64     `json:"requests"`
	Unmatched   int64     `json:"unmatched"`
	Rebuilds    int64     `json:"rebuilds"`
}
