// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero left", []float32{0, 0}, []float32{1, 0}, 0},
		{"zero right", []float32{1, 0}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
		{"nan component", []float32{float32(math.NaN()), 1}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	vectors := [][]float32{
		{1, 0},     // 0: query
		{0.9, 0.1}, // 1
		{0, 1},     // 2
		{0.9, 0.1}, // 3: ties with 1
		{-1, 0},    // 4
	}

	tests := []struct {
		name  string
		query int
		k     int
		want  []int
	}{
		{"top two with tie broken by index", 0, 2, []int{1, 3}},
		{"k larger than catalog is clamped", 0, 10, []int{1, 3, 2, 4}},
		{"k exactly n-1", 0, 4, []int{1, 3, 2, 4}},
		{"k zero", 0, 0, []int{}},
		{"k negative", 0, -1, []int{}},
		{"query out of range", 5, 3, []int{}},
		{"negative query", -1, 3, []int{}},
		{"query in the middle", 2, 1, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(vectors, tt.query, tt.k)
			if len(got) != len(tt.want) {
				t.Fatalf("Rank() returned %d items, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, s := range got {
				if s.Index != tt.want[i] {
					t.Errorf("Rank()[%d].Index = %d, want %d", i, s.Index, tt.want[i])
				}
				if s.Index == tt.query {
					t.Errorf("Rank() returned the query row")
				}
			}
		})
	}
}

func TestRank_SingleEntry(t *testing.T) {
	got := Rank([][]float32{{1, 0}}, 0, 5)
	if len(got) != 0 {
		t.Errorf("Rank() on a single-entry catalog = %+v, want empty", got)
	}
}

func TestRank_ZeroQueryVector(t *testing.T) {
	// Every score is 0, so rows come back in index order.
	vectors := [][]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	got := Rank(vectors, 0, 2)
	if len(got) != 2 || got[0].Index != 1 || got[1].Index != 2 {
		t.Errorf("Rank() = %+v, want indices [1 2]", got)
	}
	for _, s := range got {
		if s.Score != 0 {
			t.Errorf("score for row %d = %v, want 0", s.Index, s.Score)
		}
	}
}

func TestRank_QueryNotInTopSlots(t *testing.T) {
	// Rows identical to the query tie with it. Lower indices win and the
	// query is still excluded.
	vectors := [][]float32{{1, 0}, {1, 0}, {1, 0}, {0, 1}}
	got := Rank(vectors, 2, 2)
	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("Rank() = %+v, want indices [0 1]", got)
	}
}

func TestRank_MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test data
	const n, dims = 200, 16

	vectors := make([][]float32, n)
	for i := range vectors {
		v := make([]float32, dims)
		for j := range v {
			// Coarse values force plenty of exact ties.
			v[j] = float32(rng.Intn(3) - 1)
		}
		vectors[i] = v
	}

	for _, query := range []int{0, 17, 199} {
		for _, k := range []int{1, 5, 50, 199, 500} {
			want := make([]Scored, 0, n-1)
			for i, v := range vectors {
				if i == query {
					continue
				}
				want = append(want, Scored{Index: i, Score: Cosine(vectors[query], v)})
			}
			sort.Slice(want, func(i, j int) bool { return better(want[i], want[j]) })
			if k < len(want) {
				want = want[:k]
			}

			got := Rank(vectors, query, k)
			if len(got) != len(want) {
				t.Fatalf("query=%d k=%d: got %d items, want %d", query, k, len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("query=%d k=%d: item %d = %+v, want %+v", query, k, i, got[i], want[i])
				}
			}
		}
	}
}

func TestRank_ScoresDescending(t *testing.T) {
	vectors := [][]float32{{1, 0, 0}, {0.2, 0.9, 0}, {0.7, 0.7, 0}, {0.1, 0, 1}, {0.99, 0.01, 0}}
	got := Rank(vectors, 0, 4)
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}
