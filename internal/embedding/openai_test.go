// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/breaker"
)

// fakeEmbeddingsServer answers with vector [len(input), position] per input,
// listing the data entries in reverse order to exercise index reassembly.
type fakeEmbeddingsServer struct {
	mu       sync.Mutex
	calls    int
	failures []int // status codes returned before succeeding
	batches  [][]string
}

func (f *fakeEmbeddingsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	if r.URL.Path != "/embeddings" || r.Header.Get("Authorization") != "Bearer test-key" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if call <= len(f.failures) {
		w.Header().Set("Retry-After", "0")
		http.Error(w, "try later", f.failures[call-1])
		return
	}

	var req embeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.batches = append(f.batches, req.Input)
	f.mu.Unlock()

	type item struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	}
	data := make([]item, 0, len(req.Input))
	for i := len(req.Input) - 1; i >= 0; i-- {
		data = append(data, item{Index: i, Embedding: []float32{float32(len(req.Input[i])), float32(i)}})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func newTestEncoder(t *testing.T, url string, mutate func(*OpenAIConfig)) *OpenAIEncoder {
	t.Helper()
	cfg := OpenAIConfig{
		BaseURL:        url,
		Model:          "test-model",
		APIKey:         "test-key",
		BatchSize:      2,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Breaker:        breaker.Settings{MinRequests: 100},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	enc, err := NewOpenAIEncoder(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOpenAIEncoder() error = %v", err)
	}
	return enc
}

func TestOpenAIEncoder_BatchesInOrder(t *testing.T) {
	fake := &fakeEmbeddingsServer{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	enc := newTestEncoder(t, srv.URL+"/", nil)
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	vecs, err := enc.Encode(context.Background(), texts)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("len = %d, want %d", len(vecs), len(texts))
	}
	for i, v := range vecs {
		if int(v[0]) != len(texts[i]) {
			t.Errorf("vecs[%d] = %v, want length marker %d", i, v, len(texts[i]))
		}
	}
	if len(fake.batches) != 3 {
		t.Errorf("requests = %d, want 3 batches of at most 2", len(fake.batches))
	}
	if enc.Model() != "openai:test-model" {
		t.Errorf("Model() = %s", enc.Model())
	}
}

func TestOpenAIEncoder_RetriesTransientStatus(t *testing.T) {
	fake := &fakeEmbeddingsServer{failures: []int{http.StatusTooManyRequests, http.StatusBadGateway}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	enc := newTestEncoder(t, srv.URL, nil)
	vecs, err := enc.Encode(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(vecs) != 1 {
		t.Fatalf("len = %d", len(vecs))
	}
	if fake.calls != 3 {
		t.Errorf("calls = %d, want 3", fake.calls)
	}
}

func TestOpenAIEncoder_ClientErrorNotRetried(t *testing.T) {
	fake := &fakeEmbeddingsServer{failures: []int{http.StatusUnauthorized}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	enc := newTestEncoder(t, srv.URL, nil)
	_, err := enc.Encode(context.Background(), []string{"x"})
	if !errors.Is(err, ErrEncoderUnavailable) {
		t.Fatalf("error = %v, want ErrEncoderUnavailable", err)
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("error = %v, want HTTP 401 detail", err)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1", fake.calls)
	}
}

func TestOpenAIEncoder_RetriesExhausted(t *testing.T) {
	fake := &fakeEmbeddingsServer{failures: []int{500, 500, 500, 500}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	enc := newTestEncoder(t, srv.URL, nil)
	_, err := enc.Encode(context.Background(), []string{"x"})
	if !errors.Is(err, ErrEncoderUnavailable) {
		t.Fatalf("error = %v, want ErrEncoderUnavailable", err)
	}
	if fake.calls != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", fake.calls)
	}
}

func TestOpenAIEncoder_OpenCircuit(t *testing.T) {
	fake := &fakeEmbeddingsServer{failures: []int{400, 400, 400, 400, 400}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	enc := newTestEncoder(t, srv.URL, func(c *OpenAIConfig) {
		c.Breaker = breaker.Settings{MinRequests: 2, FailureRatio: 0.5, Timeout: time.Hour}
	})

	for i := 0; i < 2; i++ {
		_, _ = enc.Encode(context.Background(), []string{"x"})
	}
	callsBefore := fake.calls

	_, err := enc.Encode(context.Background(), []string{"x"})
	if !errors.Is(err, ErrEncoderUnavailable) || !breaker.IsRejected(err) {
		t.Fatalf("error = %v, want rejected ErrEncoderUnavailable", err)
	}
	if fake.calls != callsBefore {
		t.Error("open circuit should not reach the server")
	}
}

func TestOpenAIEncoder_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  OpenAIConfig
	}{
		{name: "no model", cfg: OpenAIConfig{APIKey: "k"}},
		{name: "no key", cfg: OpenAIConfig{Model: "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOpenAIEncoder(tt.cfg, zerolog.Nop())
			if !errors.Is(err, ErrEncoderUnavailable) {
				t.Errorf("error = %v, want ErrEncoderUnavailable", err)
			}
		})
	}
}

func TestOpenAIEncoder_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(&fakeEmbeddingsServer{})
	defer srv.Close()

	enc := newTestEncoder(t, srv.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := enc.Encode(ctx, []string{"x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrEncoderUnavailable) {
		t.Errorf("cancellation should not be reported as unavailable: %v", err)
	}
}

func TestAssemble(t *testing.T) {
	t.Run("bare embedding for single input", func(t *testing.T) {
		out, err := assemble(embeddingsResponse{Embedding: []float32{1, 2}}, 1)
		if err != nil || len(out) != 1 || out[0][1] != 2 {
			t.Errorf("assemble() = %v, %v", out, err)
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		var resp embeddingsResponse
		_ = json.Unmarshal([]byte(`{"data":[{"index":0,"embedding":[1]}]}`), &resp)
		if _, err := assemble(resp, 2); err == nil {
			t.Error("expected count mismatch error")
		}
	})

	t.Run("duplicate index", func(t *testing.T) {
		var resp embeddingsResponse
		_ = json.Unmarshal([]byte(`{"data":[{"index":0,"embedding":[1]},{"index":0,"embedding":[2]}]}`), &resp)
		if _, err := assemble(resp, 2); err == nil {
			t.Error("expected duplicate index error")
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	tests := map[string]time.Duration{
		"":      0,
		"3":     3 * time.Second,
		" 1 ":   time.Second,
		"-1":    0,
		"later": 0,
	}
	for in, want := range tests {
		if got := parseRetryAfter(in); got != want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("hashing default", func(t *testing.T) {
		enc, err := New(Config{Dimensions: 16}, zerolog.Nop())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if enc.Model() != "hashing-16" {
			t.Errorf("Model() = %s", enc.Model())
		}
	})

	t.Run("openai without key", func(t *testing.T) {
		_, err := New(Config{Provider: ProviderOpenAI, Model: "m"}, zerolog.Nop())
		if !errors.Is(err, ErrEncoderUnavailable) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		if _, err := New(Config{Provider: "word2vec"}, zerolog.Nop()); err == nil {
			t.Error("expected error")
		}
	})
}
