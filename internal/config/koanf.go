// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: "movies.csv",
		},
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			Path:      "embeddings.cache",
			BadgerDir: "/data/reelmatch/badger",
			Name:      "default",
		},
		Encoder: EncoderConfig{
			Provider:   "hashing",
			Model:      "",
			BaseURL:    "https://api.openai.com/v1",
			Dimensions: 384, // all-MiniLM-L6-v2 size
			BatchSize:  256,
			Timeout:    60 * time.Second,
			MaxRetries: 3,
			RateLimit:  0, // Unlimited
		},
		Recommend: RecommendConfig{
			DefaultK:       5,
			MaxK:           100,
			MaxTitleLength: 512,
			BuildTimeout:   30 * time.Minute,
		},
		Refresh: RefreshConfig{
			Interval: time.Minute,
		},
		Fallback: FallbackConfig{
			Enabled:   false, // Requires a TMDb key
			BaseURL:   "https://api.themoviedb.org/3",
			Language:  "es-ES",
			Timeout:   10 * time.Second,
			RateLimit: 20,
			CacheSize: 512,
			CacheTTL:  10 * time.Minute,
		},
		Qdrant: QdrantConfig{
			Enabled:    false,
			Host:       "localhost",
			Port:       6334,
			Collection: "movies",
			BatchSize:  256,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// CATALOG_PATH -> catalog.path
	// EMBEDDING_MODEL -> encoder.model
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Catalog
	"catalog_path": "catalog.path",
	"movies_csv":   "catalog.path",

	// Embedding cache
	"cache_backend":    "cache.backend",
	"cache_path":       "cache.path",
	"embeddings_cache": "cache.path",
	"badger_dir":       "cache.badger_dir",
	"cache_name":       "cache.name",

	// Encoder
	"embedding_provider":    "encoder.provider",
	"embedding_model":       "encoder.model",
	"embedding_base_url":    "encoder.base_url",
	"embedding_api_key":     "encoder.api_key",
	"openai_api_key":        "encoder.api_key",
	"embedding_dimensions":  "encoder.dimensions",
	"embedding_batch_size":  "encoder.batch_size",
	"embedding_timeout":     "encoder.timeout",
	"embedding_max_retries": "encoder.max_retries",
	"embedding_rate_limit":  "encoder.rate_limit",

	// Recommendation limits
	"recommend_default_k":        "recommend.default_k",
	"recommend_max_k":            "recommend.max_k",
	"recommend_max_title_length": "recommend.max_title_length",
	"recommend_build_timeout":    "recommend.build_timeout",

	// Refresh
	"refresh_interval": "refresh.interval",

	// Fallback search
	"fallback_enabled":    "fallback.enabled",
	"tmdb_api_key":        "fallback.tmdb_api_key",
	"tmdb_base_url":       "fallback.base_url",
	"tmdb_language":       "fallback.language",
	"tmdb_timeout":        "fallback.timeout",
	"tmdb_rate_limit":     "fallback.rate_limit",
	"fallback_cache_size": "fallback.cache_size",
	"fallback_cache_ttl":  "fallback.cache_ttl",

	// Qdrant mirror
	"qdrant_enabled":    "qdrant.enabled",
	"qdrant_host":       "qdrant.host",
	"qdrant_port":       "qdrant.port",
	"qdrant_collection": "qdrant.collection",
	"qdrant_batch_size": "qdrant.batch_size",

	// Server
	"http_host":              "server.host",
	"http_port":              "server.port",
	"http_shutdown_timeout":  "server.shutdown_timeout",
	"http_rate_limit":        "server.rate_limit",
	"http_rate_limit_window": "server.rate_limit_window",
	"http_cors_origins":      "server.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// sliceConfigPaths are list settings that environment variables supply as
// comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated string values of sliceConfigPaths.
// Lists from the YAML file are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		str, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		items := []string{}
		for _, part := range strings.Split(str, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf paths.
// Unmapped variables return an empty key and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
