// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package fallback

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/breaker"
	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

const (
	// ProviderTMDb is the provider name used in logs and metrics.
	ProviderTMDb = "tmdb"

	defaultTMDbBaseURL  = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	youtubeEmbedBaseURL = "https://www.youtube.com/embed/"

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

// TMDbConfig configures TMDbClient.
type TMDbConfig struct {
	// APIKey is the v3 API key. Required.
	APIKey string

	// BaseURL overrides the API root. Default: https://api.themoviedb.org/3
	BaseURL string

	// ImageBaseURL prefixes poster paths. Default: https://image.tmdb.org/t/p/w500
	ImageBaseURL string

	// Language is sent with every request. Default: es-ES
	Language string

	// Timeout bounds each HTTP request. Default: 10s
	Timeout time.Duration

	// RateLimit is requests per second. Default: 20
	RateLimit float64

	// CacheSize and CacheTTL size the response cache. Defaults: 512, 10m
	CacheSize int
	CacheTTL  time.Duration

	// Breaker configures the circuit breaker.
	Breaker breaker.Settings
}

// TMDbClient is a Provider backed by The Movie Database.
// It is safe for concurrent use.
type TMDbClient struct {
	cfg      TMDbConfig
	client   *http.Client
	breaker  *breaker.Breaker[[]byte]
	limiter  *rate.Limiter
	searches *cache.LRU[[]Movie]
	trailers *cache.LRU[string]
	logger   zerolog.Logger
}

// NewTMDbClient creates a client. An empty API key fails with ErrNotConfigured.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTMDbClient(cfg TMDbConfig, logger zerolog.Logger) (*TMDbClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: TMDb API key is empty", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTMDbBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = defaultImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "es-ES"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}

	log := logger.With().Str("component", "fallback").Str("provider", ProviderTMDb).Logger()

	return &TMDbClient{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		breaker:  breaker.New[[]byte]("tmdb-api", cfg.Breaker, log),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), int(max(cfg.RateLimit, 1))),
		searches: cache.NewLRU[[]Movie](cfg.CacheSize, cfg.CacheTTL),
		trailers: cache.NewLRU[string](cfg.CacheSize, cfg.CacheTTL),
		logger:   log,
	}, nil
}

// Name implements Provider.
func (c *TMDbClient) Name() string { return ProviderTMDb }

type searchResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		Overview    string  `json:"overview"`
		PosterPath  string  `json:"poster_path"`
		VoteAverage float64 `json:"vote_average"`
		ReleaseDate string  `json:"release_date"`
	} `json:"results"`
}

type videosResponse struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

// Search implements Provider using /search/movie.
func (c *TMDbClient) Search(ctx context.Context, query string) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Movie{}, nil
	}
	if movies, ok := c.searches.Get(query); ok {
		metrics.RecordFallback(ProviderTMDb, "cache_hit")
		return movies, nil
	}

	params := url.Values{}
	params.Set("query", query)

	raw, err := c.get(ctx, "/search/movie", params)
	if err != nil {
		metrics.RecordFallback(ProviderTMDb, "error")
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		metrics.RecordFallback(ProviderTMDb, "error")
		return nil, fmt.Errorf("%w: decode search response: %w", ErrProviderUnavailable, err)
	}

	movies := make([]Movie, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		m := Movie{
			ID:          r.ID,
			Title:       r.Title,
			Overview:    r.Overview,
			Rating:      r.VoteAverage,
			ReleaseDate: r.ReleaseDate,
		}
		if r.PosterPath != "" {
			m.PosterURL = c.cfg.ImageBaseURL + r.PosterPath
		}
		movies = append(movies, m)
	}

	result := "hit"
	if len(movies) == 0 {
		result = "empty"
	}
	metrics.RecordFallback(ProviderTMDb, result)
	c.searches.Add(query, movies)
	return movies, nil
}

// Trailer returns an embeddable YouTube URL for the first YouTube trailer of
// movie id, or "" when it has none.
func (c *TMDbClient) Trailer(ctx context.Context, id int64) (string, error) {
	key := strconv.FormatInt(id, 10)
	if u, ok := c.trailers.Get(key); ok {
		return u, nil
	}

	raw, err := c.get(ctx, "/movie/"+key+"/videos", url.Values{})
	if err != nil {
		return "", err
	}

	var parsed videosResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode videos response: %w", ErrProviderUnavailable, err)
	}

	trailer := ""
	for _, v := range parsed.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			trailer = youtubeEmbedBaseURL + v.Key
			break
		}
	}
	c.trailers.Add(key, trailer)
	return trailer, nil
}

// get performs a rate-limited, breaker-guarded GET and returns the body.
func (c *TMDbClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)
	endpoint := c.cfg.BaseURL + path + "?" + params.Encode()

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, endpoint)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn().Err(err).Str("path", path).Str("breaker_state", c.breaker.State()).Msg("TMDb request failed")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	return raw, nil
}

func (c *TMDbClient) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body := strings.TrimSpace(string(raw))
		if len(body) > 200 {
			body = body[:200]
		}
		return nil, fmt.Errorf("TMDb returned status %d: %s", resp.StatusCode, body)
	}
	return raw, nil
}

var _ Provider = (*TMDbClient)(nil)
