// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"math"
	"sort"
)

// Scored is a catalog row with its similarity to the query row.
type Scored struct {
	Index int
	Score float64
}

// Cosine returns dot(a,b) / (|a||b|) accumulated in float64.
// It returns 0 when either vector has zero magnitude, when the lengths differ,
// or when the result is not a number.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}

// Rank returns up to k rows most similar to vectors[query], highest score
// first with ties going to the lower index. The query row itself is never
// returned. The result has min(k, len(vectors)-1) items, or none when k <= 0
// or query is out of range.
func Rank(vectors [][]float32, query, k int) []Scored {
	if k <= 0 || query < 0 || query >= len(vectors) {
		return []Scored{}
	}
	if k > len(vectors)-1 {
		k = len(vectors) - 1
	}
	if k == 0 {
		return []Scored{}
	}

	// The query scores ~1.0 against itself, so k+1 slots leave room for it.
	top := newTopK(k + 1)
	q := vectors[query]
	for i, v := range vectors {
		top.offer(Scored{Index: i, Score: Cosine(q, v)})
	}

	ranked := top.sorted()
	out := make([]Scored, 0, k)
	for _, s := range ranked {
		if s.Index == query {
			continue
		}
		out = append(out, s)
		if len(out) == k {
			break
		}
	}
	return out
}

// better reports whether a ranks ahead of b.
func better(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// topK is a bounded min-heap whose root is the worst retained item.
type topK struct {
	items []Scored
	limit int
}

func newTopK(limit int) *topK {
	return &topK{items: make([]Scored, 0, limit), limit: limit}
}

func (t *topK) offer(s Scored) {
	if len(t.items) < t.limit {
		t.items = append(t.items, s)
		t.bubbleUp(len(t.items) - 1)
		return
	}
	if !better(s, t.items[0]) {
		return
	}
	t.items[0] = s
	t.bubbleDown(0)
}

func (t *topK) sorted() []Scored {
	out := make([]Scored, len(t.items))
	copy(out, t.items)
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}

// worse orders the heap: the root is the item every other item beats.
func (t *topK) worse(i, j int) bool {
	return better(t.items[j], t.items[i])
}

func (t *topK) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !t.worse(i, parent) {
			break
		}
		t.items[i], t.items[parent] = t.items[parent], t.items[i]
		i = parent
	}
}

func (t *topK) bubbleDown(i int) {
	n := len(t.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && t.worse(left, smallest) {
			smallest = left
		}
		if right < n && t.worse(right, smallest) {
			smallest = right
		}
		if smallest == i {
			return
		}
		t.items[i], t.items[smallest] = t.items[smallest], t.items[i]
		i = smallest
	}
}
