// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/embedcache"
	"github.com/tomtom215/reelmatch/internal/embedding"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// Recommendation outcomes recorded in metrics.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeInvalid   = "invalid"
	OutcomeNotReady  = "not_ready"
)

// Sources wires the engine to its inputs.
type Sources struct {
	// CatalogPath is the CSV catalog location.
	CatalogPath string

	// Encoder produces embeddings on a cache miss. Required.
	Encoder embedding.Encoder

	// Store persists embeddings between runs. Optional.
	Store embedcache.Store

	// Publishers receive every freshly encoded snapshot. Optional.
	Publishers []Publisher
}

// Engine answers recommendation requests against the active snapshot.
// It is safe for concurrent use. Rebuild swaps snapshots atomically, so
// requests in flight finish against the snapshot they started with.
type Engine struct {
	config      *Config
	catalogPath string
	builder     *Builder
	logger      zerolog.Logger

	snapshot  atomic.Pointer[Snapshot]
	rebuildMu sync.Mutex

	requestCount   atomic.Int64
	unmatchedCount atomic.Int64
	rebuildCount   atomic.Int64
}

// NewEngine creates an engine. No snapshot is installed until Rebuild succeeds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, src Sources, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if src.Encoder == nil {
		return nil, fmt.Errorf("%w: no encoder configured", embedding.ErrEncoderUnavailable)
	}

	return &Engine{
		config:      cfg,
		catalogPath: src.CatalogPath,
		builder:     NewBuilder(src.Encoder, src.Store, logger, src.Publishers...),
		logger:      logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Rebuild loads the catalog, builds a snapshot and installs it.
// The previous snapshot stays active if any step fails.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.config.Build.Timeout)
	defer cancel()

	cat, fingerprint, err := catalog.Read(e.catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	snap, err := e.builder.Build(ctx, cat, fingerprint)
	if err != nil {
		return err
	}

	e.Install(snap)
	return nil
}

// Install makes snap the active snapshot.
func (e *Engine) Install(snap *Snapshot) {
	prev := e.snapshot.Swap(snap)
	e.rebuildCount.Add(1)
	metrics.SetActiveIndex(snap.Len(), snap.Dimensions(), snap.BuiltAt())

	event := e.logger.Info().
		Int("entries", snap.Len()).
		Str("source", snap.Source()).
		Str("fingerprint", shortFingerprint(snap.Fingerprint()))
	if prev != nil {
		event = event.Str("previous_fingerprint", shortFingerprint(prev.Fingerprint()))
	}
	event.Msg("snapshot installed")
}

// NeedsRebuild reports whether the catalog on disk differs from the
// active snapshot. It is true when no snapshot is installed.
func (e *Engine) NeedsRebuild() (bool, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return true, nil
	}
	fp, err := catalog.Fingerprint(e.catalogPath)
	if err != nil {
		return false, fmt.Errorf("fingerprint catalog: %w", err)
	}
	return fp != snap.Fingerprint(), nil
}

// Snapshot returns the active snapshot, or nil before the first build.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Ready reports whether a snapshot is installed.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// CatalogPath returns the catalog location.
func (e *Engine) CatalogPath() string {
	return e.catalogPath
}

// Recommend resolves req.Title to a catalog row and returns its nearest
// neighbours. When the title does not resolve, the response has
// Matched=false and no items, and the error is nil; callers are expected to
// fall back to an external search.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	if err := e.validateRequest(&req); err != nil {
		metrics.RecordRecommendation(OutcomeInvalid, time.Since(start))
		return nil, err
	}

	snap := e.snapshot.Load()
	if snap == nil {
		metrics.RecordRecommendation(OutcomeNotReady, time.Since(start))
		return nil, ErrNotReady
	}

	k := e.effectiveK(req.K)
	resp := &Response{
		Query:        req.Title,
		MatchedIndex: -1,
		Items:        []ScoredItem{},
		Metadata: ResponseMetadata{
			RequestID:   req.RequestID,
			K:           k,
			Fingerprint: snap.Fingerprint(),
		},
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx, ok := snap.Resolve(req.Title)
	if !ok {
		e.unmatchedCount.Add(1)
		e.finish(resp, start, OutcomeUnmatched)
		e.logger.Debug().
			Str("request_id", req.RequestID).
			Str("query", req.Title).
			Msg("title not in catalog")
		return resp, nil
	}

	matched := snap.Catalog().At(idx)
	resp.Matched = true
	resp.MatchedIndex = idx
	resp.MatchedTitle = matched.Title

	// Titles are distinct in a response and never repeat the matched one.
	// Every skipped row repeats a title, so over-fetching by the number of
	// repeated rows still yields k items when the catalog has them.
	seen := map[string]struct{}{matched.Title: {}}
	for _, s := range Rank(snap.Vectors(), idx, k+snap.redundant) {
		entry := snap.Catalog().At(s.Index)
		if _, dup := seen[entry.Title]; dup {
			continue
		}
		seen[entry.Title] = struct{}{}
		resp.Items = append(resp.Items, ScoredItem{
			Index: s.Index,
			Title: entry.Title,
			Score: s.Score,
		})
		if len(resp.Items) == k {
			break
		}
	}

	e.finish(resp, start, OutcomeMatched)
	return resp, nil
}

// Titles is the plain form of Recommend: it returns recommended titles, or
// an empty slice when the query does not resolve or the engine is not ready.
func (e *Engine) Titles(ctx context.Context, title string, k int) []string {
	resp, err := e.Recommend(ctx, Request{Title: title, K: k})
	if err != nil {
		if !errors.Is(err, ErrNotReady) {
			e.logger.Debug().Err(err).Str("query", title).Msg("recommendation failed")
		}
		return []string{}
	}
	return resp.Titles()
}

// Stats returns the active snapshot summary and request counters.
func (e *Engine) Stats() Stats {
	st := Stats{
		Requests:  e.requestCount.Load(),
		Unmatched: e.unmatchedCount.Load(),
		Rebuilds:  e.rebuildCount.Load(),
	}
	if snap := e.snapshot.Load(); snap != nil {
		st.Ready = true
		st.Entries = snap.Len()
		st.Dimensions = snap.Dimensions()
		st.Fingerprint = snap.Fingerprint()
		st.Source = snap.Source()
		st.Model = snap.Model()
		st.BuiltAt = snap.BuiltAt()
	}
	return st
}

func (e *Engine) validateRequest(req *Request) error {
	if err := validation.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if n := utf8.RuneCountInString(req.Title); n > e.config.Limits.MaxTitleLength {
		return fmt.Errorf("%w: title has %d characters, limit is %d",
			ErrInvalidRequest, n, e.config.Limits.MaxTitleLength)
	}
	return nil
}

func (e *Engine) effectiveK(k int) int {
	if k == 0 {
		return e.config.Limits.DefaultK
	}
	if k > e.config.Limits.MaxK {
		return e.config.Limits.MaxK
	}
	return k
}

func (e *Engine) finish(resp *Response, start time.Time, outcome string) {
	elapsed := time.Since(start)
	resp.Metadata.LatencyMS = elapsed.Milliseconds()
	resp.Metadata.Timestamp = time.Now()
	metrics.RecordRecommendation(outcome, elapsed)
}
