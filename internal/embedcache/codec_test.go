// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedcache

import (
	"errors"
	"math"
	"testing"
)

// sameBits compares vectors bit for bit so NaN payloads and signed zeros count.
func sameBits(t *testing.T, got, want [][]float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("rows = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d dims = %d, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if math.Float32bits(got[i][j]) != math.Float32bits(want[i][j]) {
				t.Fatalf("row %d dim %d: %#x != %#x", i, j, math.Float32bits(got[i][j]), math.Float32bits(want[i][j]))
			}
		}
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	nanPayload := math.Float32frombits(0x7fc00123)
	negZero := float32(math.Copysign(0, -1))

	tests := []struct {
		name        string
		fingerprint string
		vectors     [][]float32
	}{
		{name: "empty", fingerprint: "e3b0c442", vectors: nil},
		{name: "single row", fingerprint: "abc", vectors: [][]float32{{0.5, -0.25, 1}}},
		{
			name:        "special values",
			fingerprint: "fp",
			vectors: [][]float32{
				{nanPayload, negZero, float32(math.Inf(1))},
				{math.SmallestNonzeroFloat32, math.MaxFloat32, float32(math.Inf(-1))},
			},
		},
		{name: "zero dimension rows", fingerprint: "z", vectors: [][]float32{{}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.fingerprint, tt.vectors)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			entry, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if entry.Fingerprint != tt.fingerprint {
				t.Errorf("Fingerprint = %q, want %q", entry.Fingerprint, tt.fingerprint)
			}
			sameBits(t, entry.Vectors, tt.vectors)
		})
	}
}

func TestEncode_RaggedVectors(t *testing.T) {
	_, err := Encode("fp", [][]float32{{1, 2}, {3}})
	if err == nil {
		t.Fatal("expected error for ragged vectors")
	}
}

func TestDecode_Corrupt(t *testing.T) {
	valid, err := Encode("fingerprint", [][]float32{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}

	flip := func(i int) []byte {
		b := append([]byte(nil), valid...)
		b[i] ^= 0xff
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "too short", data: []byte("RMEC")},
		{name: "truncated", data: valid[:len(valid)-5]},
		{name: "flipped payload byte", data: flip(len(valid) - 6)},
		{name: "flipped magic", data: flip(0)},
		{name: "flipped checksum", data: flip(len(valid) - 1)},
		{name: "garbage", data: []byte("this is definitely not an embedding cache")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Decode() error = %v, want ErrCorrupt", err)
			}
		})
	}
}
