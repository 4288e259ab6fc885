// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package catalog loads the movie catalog and computes its content fingerprint.
//
// A catalog is an ordered list of (title, description) pairs read from a CSV
// file with a header row. Row order defines the index space shared by the
// embedding index, the title resolver and the similarity ranker, so the
// loader never reorders, deduplicates or trims rows.
//
// # Missing Files
//
// A missing catalog file is not an error. Load returns an empty catalog and
// every query then resolves to "no match", which lets callers degrade to the
// external search fallback. Fingerprint of a missing file is the digest of
// zero bytes so the empty catalog still has a stable cache key.
//
// # Schema
//
// The columns "title" and "description" are required and located by header
// name. Extra columns are ignored and column order is free:
//
//	title,year,description
//	Inception,2010,A thief who steals corporate secrets...
//
// A file without one of the required columns fails with a *SchemaError.
package catalog
