// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid.
// It reports the first problem found.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative, got %v", c.Refresh.Interval)
	}
	if err := c.validateFallback(); err != nil {
		return err
	}
	if err := c.validateQdrant(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case CacheBackendFile:
		if c.Cache.Path == "" {
			return fmt.Errorf("CACHE_PATH is required when CACHE_BACKEND=file")
		}
	case CacheBackendBadger:
		if c.Cache.BadgerDir == "" {
			return fmt.Errorf("BADGER_DIR is required when CACHE_BACKEND=badger")
		}
		if c.Cache.Name == "" {
			return fmt.Errorf("CACHE_NAME is required when CACHE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: file, badger")
	}
	return nil
}

// validEncoderProviders defines the supported embedding providers
var validEncoderProviders = map[string]bool{
	"hashing": true,
	"openai":  true,
}

func (c *Config) validateEncoder() error {
	e := c.Encoder
	if !validEncoderProviders[e.Provider] {
		return fmt.Errorf("EMBEDDING_PROVIDER must be one of: hashing, openai")
	}
	if e.Dimensions < 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must not be negative, got %d", e.Dimensions)
	}
	if e.Provider == "hashing" && e.Dimensions == 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS is required when EMBEDDING_PROVIDER=hashing")
	}
	if e.Provider != "openai" {
		return nil
	}
	if e.Model == "" {
		return fmt.Errorf("EMBEDDING_MODEL is required when EMBEDDING_PROVIDER=openai")
	}
	if e.APIKey == "" {
		return fmt.Errorf("EMBEDDING_API_KEY is required when EMBEDDING_PROVIDER=openai")
	}
	if err := validateHTTPURL(e.BaseURL, "EMBEDDING_BASE_URL"); err != nil {
		return err
	}
	if e.BatchSize <= 0 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be positive, got %d", e.BatchSize)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be positive, got %v", e.Timeout)
	}
	if e.MaxRetries < 0 {
		return fmt.Errorf("EMBEDDING_MAX_RETRIES must not be negative, got %d", e.MaxRetries)
	}
	if e.RateLimit < 0 {
		return fmt.Errorf("EMBEDDING_RATE_LIMIT must not be negative, got %v", e.RateLimit)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultK <= 0 {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be positive, got %d", r.DefaultK)
	}
	if r.MaxK < r.DefaultK {
		return fmt.Errorf("RECOMMEND_MAX_K (%d) must be >= RECOMMEND_DEFAULT_K (%d)", r.MaxK, r.DefaultK)
	}
	if r.MaxTitleLength <= 0 {
		return fmt.Errorf("RECOMMEND_MAX_TITLE_LENGTH must be positive, got %d", r.MaxTitleLength)
	}
	if r.BuildTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_BUILD_TIMEOUT must be positive, got %v", r.BuildTimeout)
	}
	return nil
}

// validateFallback validates the TMDb settings (only if enabled)
func (c *Config) validateFallback() error {
	f := c.Fallback
	if !f.Enabled {
		return nil
	}
	if f.TMDbAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required when FALLBACK_ENABLED=true")
	}
	if err := validateHTTPURL(f.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive, got %v", f.Timeout)
	}
	if f.RateLimit < 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must not be negative, got %v", f.RateLimit)
	}
	return nil
}

// validateQdrant validates the vector mirror settings (only if enabled)
func (c *Config) validateQdrant() error {
	q := c.Qdrant
	if !q.Enabled {
		return nil
	}
	if q.Host == "" {
		return fmt.Errorf("QDRANT_HOST is required when QDRANT_ENABLED=true")
	}
	if q.Port < 1 || q.Port > 65535 {
		return fmt.Errorf("QDRANT_PORT must be between 1 and 65535, got %d", q.Port)
	}
	if q.Collection == "" {
		return fmt.Errorf("QDRANT_COLLECTION is required when QDRANT_ENABLED=true")
	}
	return nil
}

func (c *Config) validateServer() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", s.Port)
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", s.ShutdownTimeout)
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT must not be negative, got %d", s.RateLimit)
	}
	if s.RateLimit > 0 && s.RateLimitWindow <= 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT_WINDOW must be positive when HTTP_RATE_LIMIT is set")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
