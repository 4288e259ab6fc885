// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/breaker"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

const maxResponseBytes = 64 << 20

// OpenAIConfig configures an OpenAI-compatible embeddings client.
type OpenAIConfig struct {
	// BaseURL is the API root without the /embeddings suffix.
	// Default: https://api.openai.com/v1
	BaseURL string

	// Model is the embedding model name. Required.
	Model string

	// APIKey is sent as a bearer token. Required.
	APIKey string

	// Dimensions requests a reduced output size when the model supports it.
	// Default: 0 (model default)
	Dimensions int

	// BatchSize caps the number of inputs per request.
	// Default: 256
	BatchSize int

	// Timeout bounds each HTTP attempt.
	// Default: 60s
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Default: 3
	MaxRetries int

	// InitialBackoff is the first retry delay, doubled per attempt.
	// Default: 500ms
	InitialBackoff time.Duration

	// MaxBackoff caps the retry delay.
	// Default: 5s
	MaxBackoff time.Duration

	// RateLimit is the sustained request rate in requests per second.
	// Default: 0 (unlimited)
	RateLimit float64

	// Breaker configures the circuit breaker around each batch.
	Breaker breaker.Settings
}

// OpenAIEncoder calls POST {BaseURL}/embeddings in batches.
type OpenAIEncoder struct {
	cfg     OpenAIConfig
	client  *http.Client
	breaker *breaker.Breaker[[][]float32]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewOpenAIEncoder validates cfg and returns a ready client. Missing
// credentials fail with ErrEncoderUnavailable.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewOpenAIEncoder(cfg OpenAIConfig, logger zerolog.Logger) (*OpenAIEncoder, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: embeddings model is not configured", ErrEncoderUnavailable)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: embeddings API key is not configured", ErrEncoderUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	log := logger.With().Str("component", "encoder").Str("provider", ProviderOpenAI).Logger()

	return &OpenAIEncoder{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker.New[[][]float32]("embeddings-api", cfg.Breaker, log),
		limiter: limiter,
		logger:  log,
	}, nil
}

// Model implements Encoder.
func (e *OpenAIEncoder) Model() string {
	return ProviderOpenAI + ":" + e.cfg.Model
}

// Encode implements Encoder. Inputs are split into BatchSize chunks and the
// results reassembled in input order.
func (e *OpenAIEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	out, err := e.encode(ctx, texts)
	metrics.RecordEncode(ProviderOpenAI, len(texts), time.Since(start), err)
	return out, err
}

func (e *OpenAIEncoder) encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for lo := 0; lo < len(texts); lo += e.cfg.BatchSize {
		hi := min(lo+e.cfg.BatchSize, len(texts))
		batch := texts[lo:hi]

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}

		vecs, err := e.breaker.Execute(func() ([][]float32, error) {
			return e.requestWithRetry(ctx, batch)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("embed batch %d-%d: %w", lo, hi, err)
			}
			return nil, fmt.Errorf("%w: embed batch %d-%d: %w", ErrEncoderUnavailable, lo, hi, err)
		}

		e.logger.Debug().Int("from", lo).Int("to", hi).Msg("batch embedded")
		out = append(out, vecs...)
	}

	return out, nil
}

// statusError is a non-2xx response.
type statusError struct {
	code       int
	body       string
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("embeddings request failed: HTTP %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

func (e *OpenAIEncoder) requestWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := e.backoff(attempt)
			var se *statusError
			if errors.As(lastErr, &se) && se.retryAfter > 0 {
				delay = min(se.retryAfter, e.cfg.MaxBackoff)
			}

			metrics.RecordEncoderRetry(ProviderOpenAI)
			e.logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("retrying embeddings request")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		vecs, err := e.request(ctx, batch)
		if err == nil {
			return vecs, nil
		}
		lastErr = err

		if !isRetryable(ctx, err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("after %d retries: %w", e.cfg.MaxRetries, lastErr)
}

// backoff returns InitialBackoff doubled per attempt, capped at MaxBackoff.
func (e *OpenAIEncoder) backoff(attempt int) time.Duration {
	d := e.cfg.InitialBackoff << (attempt - 1)
	if d <= 0 || d > e.cfg.MaxBackoff {
		return e.cfg.MaxBackoff
	}
	return d
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	var de *decodeError
	if errors.As(err, &de) {
		return false
	}
	// Transport errors: connection refused, reset, per-attempt timeout.
	return true
}

type embeddingsRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`

	// Some OpenAI-compatible servers answer single inputs with a bare embedding.
	Embedding []float32 `json:"embedding"`
}

// decodeError is a malformed 2xx response.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode embeddings response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (e *OpenAIEncoder) request(ctx context.Context, batch []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingsRequest{
		Model:      e.cfg.Model,
		Input:      batch,
		Dimensions: e.cfg.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{
			code:       resp.StatusCode,
			body:       truncate(strings.TrimSpace(string(raw)), 200),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var parsed embeddingsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &decodeError{err: err}
	}
	return assemble(parsed, len(batch))
}

// assemble orders response vectors by their index field.
func assemble(parsed embeddingsResponse, want int) ([][]float32, error) {
	if len(parsed.Data) == 0 && len(parsed.Embedding) > 0 && want == 1 {
		return [][]float32{parsed.Embedding}, nil
	}
	if len(parsed.Data) != want {
		return nil, &decodeError{err: fmt.Errorf("got %d embeddings for %d inputs", len(parsed.Data), want)}
	}

	out := make([][]float32, want)
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= want {
			return nil, &decodeError{err: fmt.Errorf("embedding index %d out of range", d.Index)}
		}
		if out[d.Index] != nil {
			return nil, &decodeError{err: fmt.Errorf("duplicate embedding index %d", d.Index)}
		}
		if len(d.Embedding) == 0 {
			return nil, &decodeError{err: fmt.Errorf("empty embedding at index %d", d.Index)}
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

// parseRetryAfter understands the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Encoder = (*OpenAIEncoder)(nil)
