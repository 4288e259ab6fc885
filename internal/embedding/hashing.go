// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashingDimensions matches the output size of common sentence
// embedding models so caches and mirrors size identically.
const DefaultHashingDimensions = 384

const bigramWeight = 0.5

// HashingEncoder embeds text with signed feature hashing over lowercase word
// unigrams and bigrams, then L2-normalizes the result.
//
// It is deterministic per text and independent of batch composition, so
// encoding rows one at a time yields the same vectors as a single batch.
type HashingEncoder struct {
	dims int
}

// NewHashingEncoder returns a hashing encoder with the given dimensionality.
// Zero selects DefaultHashingDimensions.
func NewHashingEncoder(dims int) (*HashingEncoder, error) {
	if dims == 0 {
		dims = DefaultHashingDimensions
	}
	if dims < 0 {
		return nil, fmt.Errorf("hashing encoder dimensions must be positive, got %d", dims)
	}
	return &HashingEncoder{dims: dims}, nil
}

// Model implements Encoder.
func (h *HashingEncoder) Model() string {
	return fmt.Sprintf("hashing-%d", h.dims)
}

// Dimensions returns the output vector size.
func (h *HashingEncoder) Dimensions() int {
	return h.dims
}

// Encode implements Encoder. It only fails when ctx is done.
func (h *HashingEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = h.embed(text)
	}
	return out, nil
}

func (h *HashingEncoder) embed(text string) []float32 {
	acc := make([]float64, h.dims)
	tokens := tokenize(text)

	for i, tok := range tokens {
		h.add(acc, tok, 1)
		if i > 0 {
			h.add(acc, tokens[i-1]+" "+tok, bigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, h.dims)
	if norm == 0 {
		return vec
	}
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

// add hashes feature into a bucket. The top bit of the hash picks the sign so
// collisions cancel in expectation.
func (h *HashingEncoder) add(acc []float64, feature string, weight float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()

	bucket := sum % uint64(len(acc))
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[bucket] += weight
}

// tokenize lowercases text and splits it on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

var _ Encoder = (*HashingEncoder)(nil)
