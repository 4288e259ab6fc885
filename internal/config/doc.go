// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config loads and validates ReelMatch configuration.

Configuration is layered with Koanf v2, highest priority last:
  - Built-in defaults (defaultConfig)
  - Optional YAML file: $CONFIG_PATH, ./config.yaml or /etc/reelmatch/config.yaml
  - Environment variables, mapped through envMappings

# Environment Variables

Catalog and cache:
  - CATALOG_PATH: movie CSV (default: movies.csv)
  - CACHE_BACKEND: file or badger (default: file)
  - CACHE_PATH: embedding cache file (default: embeddings.cache)
  - BADGER_DIR: badger directory (default: /data/reelmatch/badger)

Encoder:
  - EMBEDDING_PROVIDER: hashing or openai (default: hashing)
  - EMBEDDING_MODEL, EMBEDDING_BASE_URL, EMBEDDING_API_KEY
  - EMBEDDING_DIMENSIONS (default: 384), EMBEDDING_BATCH_SIZE (default: 256)

Fallback search:
  - FALLBACK_ENABLED (default: false)
  - TMDB_API_KEY, TMDB_LANGUAGE (default: es-ES)

Qdrant mirror:
  - QDRANT_ENABLED, QDRANT_HOST, QDRANT_PORT (default: 6334), QDRANT_COLLECTION

Server and logging:
  - HTTP_HOST, HTTP_PORT (default: 8080), REFRESH_INTERVAL (default: 1m)
  - LOG_LEVEL (default: info), LOG_FORMAT (default: json), LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
