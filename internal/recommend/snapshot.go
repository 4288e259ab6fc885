// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Snapshot sources.
const (
	SourceCache   = "cache"
	SourceEncoder = "encoder"
	SourceEmpty   = "empty"
)

// Snapshot is an immutable catalog plus one vector per catalog row.
// It must not be mutated after construction.
type Snapshot struct {
	catalog     *catalog.Catalog
	vectors     [][]float32
	fingerprint string
	dimensions  int
	source      string
	model       string
	builtAt     time.Time

	// folded holds case-folded titles for Resolve.
	folded []string
	// redundant counts rows whose title repeats an earlier row's.
	redundant int
}

// NewSnapshot pairs a catalog with its vectors. It fails with ErrIndexMismatch
// when the row counts differ or the vectors are not all the same length.
func NewSnapshot(cat *catalog.Catalog, vectors [][]float32, fingerprint, source, model string) (*Snapshot, error) {
	if cat.Len() != len(vectors) {
		return nil, fmt.Errorf("%w: %d catalog rows, %d vectors", ErrIndexMismatch, cat.Len(), len(vectors))
	}

	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrIndexMismatch, i, len(v), dims)
		}
	}
	if cat == nil {
		cat = catalog.New()
	}

	titles := make(map[string]struct{}, cat.Len())
	for i := 0; i < cat.Len(); i++ {
		titles[cat.At(i).Title] = struct{}{}
	}

	return &Snapshot{
		catalog:     cat,
		vectors:     vectors,
		fingerprint: fingerprint,
		dimensions:  dims,
		source:      source,
		model:       model,
		builtAt:     time.Now(),
		folded:      foldTitles(cat),
		redundant:   cat.Len() - len(titles),
	}, nil
}

// Resolve maps query to a row the same way as the package-level Resolve,
// without re-folding the catalog titles.
func (s *Snapshot) Resolve(query string) (int, bool) {
	return resolve(s.catalog, s.folded, query)
}

// Catalog returns the snapshot catalog.
func (s *Snapshot) Catalog() *catalog.Catalog { return s.catalog }

// Len returns the number of rows.
func (s *Snapshot) Len() int { return len(s.vectors) }

// Vector returns the vector for row i. Callers must not modify it.
func (s *Snapshot) Vector(i int) []float32 { return s.vectors[i] }

// Vectors returns all vectors. Callers must not modify them.
func (s *Snapshot) Vectors() [][]float32 { return s.vectors }

// Fingerprint returns the catalog fingerprint the snapshot was built from.
func (s *Snapshot) Fingerprint() string { return s.fingerprint }

// Dimensions returns the vector size, 0 for an empty snapshot.
func (s *Snapshot) Dimensions() int { return s.dimensions }

// Source reports whether vectors came from the cache or the encoder.
func (s *Snapshot) Source() string { return s.source }

// Model returns the encoder model that produced the vectors.
func (s *Snapshot) Model() string { return s.model }

// BuiltAt returns the construction time.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }
