// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedding

import (
	"context"
	"math"
	"testing"
)

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func TestHashingEncoder_Deterministic(t *testing.T) {
	enc, err := NewHashingEncoder(64)
	if err != nil {
		t.Fatalf("NewHashingEncoder() error = %v", err)
	}

	texts := []string{"Inception. A thief who steals secrets", "Up. A widower", "Heat. Cops and robbers"}
	batch, err := enc.Encode(context.Background(), texts)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(batch) != len(texts) {
		t.Fatalf("len = %d, want %d", len(batch), len(texts))
	}

	// Per-row calls must match the batched call exactly.
	for i, text := range texts {
		single, err := enc.Encode(context.Background(), []string{text})
		if err != nil {
			t.Fatalf("Encode(single) error = %v", err)
		}
		for j := range single[0] {
			if math.Float32bits(single[0][j]) != math.Float32bits(batch[i][j]) {
				t.Fatalf("row %d dim %d: single %v != batch %v", i, j, single[0][j], batch[i][j])
			}
		}
	}
}

func TestHashingEncoder_Normalized(t *testing.T) {
	enc, _ := NewHashingEncoder(128)
	vecs, _ := enc.Encode(context.Background(), []string{"A team of explorers travel through a wormhole"})

	if len(vecs[0]) != 128 {
		t.Fatalf("dims = %d, want 128", len(vecs[0]))
	}
	if n := math.Sqrt(dot(vecs[0], vecs[0])); math.Abs(n-1) > 1e-5 {
		t.Errorf("norm = %v, want 1", n)
	}
}

func TestHashingEncoder_EmptyTextIsZero(t *testing.T) {
	enc, _ := NewHashingEncoder(16)
	vecs, _ := enc.Encode(context.Background(), []string{"", "..."})

	for i, v := range vecs {
		for _, x := range v {
			if x != 0 {
				t.Fatalf("vector %d should be zero, got %v", i, v)
			}
		}
	}
}

func TestHashingEncoder_SimilarTextsScoreHigher(t *testing.T) {
	enc, _ := NewHashingEncoder(DefaultHashingDimensions)
	vecs, _ := enc.Encode(context.Background(), []string{
		"space travel through a wormhole to save humanity",
		"astronauts travel through a wormhole in space",
		"a grumpy widower ties balloons to his house",
	})

	related := dot(vecs[0], vecs[1])
	unrelated := dot(vecs[0], vecs[2])
	if related <= unrelated {
		t.Errorf("related score %v should exceed unrelated %v", related, unrelated)
	}
}

func TestHashingEncoder_CaseInsensitiveTokens(t *testing.T) {
	enc, _ := NewHashingEncoder(32)
	vecs, _ := enc.Encode(context.Background(), []string{"Space Odyssey", "space odyssey"})
	if got := dot(vecs[0], vecs[1]); math.Abs(got-1) > 1e-6 {
		t.Errorf("cosine = %v, want 1", got)
	}
}

func TestHashingEncoder_Config(t *testing.T) {
	if _, err := NewHashingEncoder(-1); err == nil {
		t.Error("expected error for negative dimensions")
	}

	enc, err := NewHashingEncoder(0)
	if err != nil {
		t.Fatalf("NewHashingEncoder(0) error = %v", err)
	}
	if enc.Dimensions() != DefaultHashingDimensions {
		t.Errorf("Dimensions() = %d, want %d", enc.Dimensions(), DefaultHashingDimensions)
	}
	if enc.Model() != "hashing-384" {
		t.Errorf("Model() = %s", enc.Model())
	}
}

func TestHashingEncoder_HonorsCancellation(t *testing.T) {
	enc, _ := NewHashingEncoder(8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := enc.Encode(ctx, []string{"a"}); err == nil {
		t.Error("expected context error")
	}
}
