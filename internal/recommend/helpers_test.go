// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/reelmatch/internal/embedcache"
)

// scriptedEncoder returns fixed vectors keyed by embedding text.
type scriptedEncoder struct {
	vectors map[string][]float32
	err     error
	calls   atomic.Int32
	texts   atomic.Int32
}

func (e *scriptedEncoder) Model() string { return "scripted" }

func (e *scriptedEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	e.texts.Add(int32(len(texts)))
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := e.vectors[text]
		if !ok {
			return nil, errors.New("no vector scripted for " + text)
		}
		out[i] = append([]float32(nil), v...)
	}
	return out, nil
}

// memStore is an in-memory embedcache.Store.
type memStore struct {
	mu      sync.Mutex
	entry   *embedcache.Entry
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Backend() string { return "memory" }

func (s *memStore) Load(_ context.Context) (*embedcache.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.entry, nil
}

func (s *memStore) Save(_ context.Context, fingerprint string, vectors [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entry = &embedcache.Entry{Fingerprint: fingerprint, Vectors: vectors}
	return nil
}

// recordingPublisher counts Publish calls.
type recordingPublisher struct {
	published atomic.Int32
	err       error
}

func (p *recordingPublisher) Name() string { return "recording" }

func (p *recordingPublisher) Publish(_ context.Context, _ *Snapshot) error {
	p.published.Add(1)
	return p.err
}

// writeCatalog writes a title,description CSV and returns its path.
func writeCatalog(t *testing.T, dir string, rows ...[2]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("title,description\n")
	for _, r := range rows {
		b.WriteString(r[0])
		b.WriteString(",")
		b.WriteString(r[1])
		b.WriteString("\n")
	}
	path := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

// movieRows is a small catalog with a known similarity structure.
var movieRows = [][2]string{
	{"Inception", "dream heist"},
	{"Interstellar", "space travel"},
	{"The Prestige", "rival magicians"},
	{"Paddington", "bear in london"},
	{"Tenet", "time inversion"},
}

// movieVectors lines up with movieRows. Inception is closest to Tenet,
// then Interstellar, then The Prestige. Paddington points the other way.
var movieVectors = map[string][]float32{
	"Inception. dream heist":        {1, 0, 0},
	"Interstellar. space travel":    {0.8, 0.6, 0},
	"The Prestige. rival magicians": {0.6, 0, 0.8},
	"Paddington. bear in london":    {-1, 0, 0},
	"Tenet. time inversion":         {0.95, 0.05, 0},
}
