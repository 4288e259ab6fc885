// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Resolve maps a free-text query to a catalog row.
//
// An exact, case-sensitive title match wins. Failing that, the first title
// that contains the query under Unicode case folding is used. In both passes
// the lowest index wins. An empty query never resolves.
//
// Resolve folds every title on each call; Snapshot.Resolve reuses titles
// folded once at construction.
func Resolve(cat *catalog.Catalog, query string) (int, bool) {
	return resolve(cat, nil, query)
}

// resolve implements Resolve. folded holds the folded titles of cat, or is
// nil to fold them on the fly.
func resolve(cat *catalog.Catalog, folded []string, query string) (int, bool) {
	n := cat.Len()
	if query == "" || n == 0 {
		return -1, false
	}

	for i := 0; i < n; i++ {
		if cat.At(i).Title == query {
			return i, true
		}
	}

	// cases.Caser is stateful, so each call gets its own.
	folder := cases.Fold()
	needle := folder.String(query)
	if needle == "" {
		return -1, false
	}
	for i := 0; i < n; i++ {
		var title string
		if folded != nil {
			title = folded[i]
		} else {
			title = folder.String(cat.At(i).Title)
		}
		if strings.Contains(title, needle) {
			return i, true
		}
	}
	return -1, false
}

// foldTitles case-folds every title of cat.
func foldTitles(cat *catalog.Catalog) []string {
	folder := cases.Fold()
	folded := make([]string, cat.Len())
	for i := range folded {
		folded[i] = folder.String(cat.At(i).Title)
	}
	return folded
}
