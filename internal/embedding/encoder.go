// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package embedding provides text encoders that map strings to fixed-length
// float32 vectors.
//
// The recommendation engine treats the encoder as an opaque, injectable
// capability. Two implementations ship with ReelMatch:
//
//   - HashingEncoder: deterministic feature hashing, no network, used for
//     offline builds and as the test double
//   - OpenAIEncoder: any OpenAI-compatible /embeddings endpoint, batched,
//     retried, rate limited and protected by a circuit breaker
//
// Encoders must return exactly one vector per input, in input order, with a
// fixed dimensionality, and must be deterministic for a fixed model.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrEncoderUnavailable marks failures that mean the encoder cannot serve at
// all: missing credentials, an unreachable endpoint, or an open circuit.
var ErrEncoderUnavailable = errors.New("encoder unavailable")

// Encoder converts a batch of texts into vectors.
type Encoder interface {
	// Encode returns one vector per text in input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Model identifies the model, for example "hashing-384" or "openai:text-embedding-3-small".
	Model() string
}

// Provider names accepted by New.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
)

// Config selects and configures an encoder.
type Config struct {
	// Provider is "hashing" or "openai".
	Provider string

	// Model is the remote model name (openai only).
	Model string

	// BaseURL is the API root, e.g. https://api.openai.com/v1 (openai only).
	BaseURL string

	// APIKey authenticates against the API (openai only).
	APIKey string

	// Dimensions is the output size. Required for hashing, optional for openai.
	Dimensions int

	// BatchSize caps texts per HTTP request (openai only).
	BatchSize int

	// Timeout bounds a single HTTP attempt (openai only).
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt (openai only).
	MaxRetries int

	// RateLimit is the sustained request rate in requests per second. Zero disables pacing.
	RateLimit float64
}

// New builds the encoder named by cfg.Provider.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, logger zerolog.Logger) (Encoder, error) {
	switch cfg.Provider {
	case ProviderHashing, "":
		return NewHashingEncoder(cfg.Dimensions)
	case ProviderOpenAI:
		return NewOpenAIEncoder(OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			APIKey:     cfg.APIKey,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RateLimit:  cfg.RateLimit,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported encoder provider %q", cfg.Provider)
	}
}
