// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import "time"

// Config holds all application configuration.
// Fields are populated by LoadWithKoanf from defaults, an optional YAML file
// and environment variables, in that order.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Cache     CacheConfig     `koanf:"cache"`
	Encoder   EncoderConfig   `koanf:"encoder"`
	Recommend RecommendConfig `koanf:"recommend"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Fallback  FallbackConfig  `koanf:"fallback"`
	Qdrant    QdrantConfig    `koanf:"qdrant"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig locates the movie catalog.
type CatalogConfig struct {
	// Path is the CSV file with title and description columns.
	Path string `koanf:"path"`
}

// Cache backends.
const (
	CacheBackendFile   = "file"
	CacheBackendBadger = "badger"
)

// CacheConfig controls where computed embeddings are persisted.
type CacheConfig struct {
	// Backend is "file" or "badger".
	Backend string `koanf:"backend"`

	// Path is the cache file used by the file backend.
	Path string `koanf:"path"`

	// BadgerDir is the database directory used by the badger backend.
	BadgerDir string `koanf:"badger_dir"`

	// Name is the key under which the badger backend stores the entry.
	Name string `koanf:"name"`
}

// EncoderConfig selects and tunes the text embedding model.
type EncoderConfig struct {
	Provider   string        `koanf:"provider"`
	Model      string        `koanf:"model"`
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Dimensions int           `koanf:"dimensions"`
	BatchSize  int           `koanf:"batch_size"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
	RateLimit  float64       `koanf:"rate_limit"`
}

// RecommendConfig bounds recommendation requests and index builds.
type RecommendConfig struct {
	DefaultK       int           `koanf:"default_k"`
	MaxK           int           `koanf:"max_k"`
	MaxTitleLength int           `koanf:"max_title_length"`
	BuildTimeout   time.Duration `koanf:"build_timeout"`
}

// RefreshConfig controls catalog change detection in the server.
type RefreshConfig struct {
	// Interval between fingerprint checks. Zero disables refresh.
	Interval time.Duration `koanf:"interval"`
}

// FallbackConfig configures the external movie search used when the
// local index cannot answer a query.
type FallbackConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TMDbAPIKey string        `koanf:"tmdb_api_key"`
	BaseURL    string        `koanf:"base_url"`
	Language   string        `koanf:"language"`
	Timeout    time.Duration `koanf:"timeout"`
	RateLimit  float64       `koanf:"rate_limit"`
	CacheSize  int           `koanf:"cache_size"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
}

// QdrantConfig configures the optional vector mirror.
type QdrantConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Collection string `koanf:"collection"`
	BatchSize  int    `koanf:"batch_size"`
}

// ServerConfig holds the ops HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the per-IP request budget for each RateLimitWindow.
	RateLimit       int           `koanf:"rate_limit"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins enables CORS on the ops API for these origins. Empty disables it.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// Load reads configuration using Koanf with layered sources.
// Priority (highest to lowest): environment variables, config file, defaults.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
