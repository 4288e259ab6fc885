// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package api serves the operational HTTP surface: liveness, readiness,
// Prometheus metrics and index statistics. Routing uses chi.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// IndexStatus is the part of recommend.Engine the handlers read.
type IndexStatus interface {
	Ready() bool
	Stats() recommend.Stats
}

// Config holds router settings.
type Config struct {
	// RateLimit is the per-IP request budget per RateLimitWindow. Zero disables limiting.
	RateLimit       int
	RateLimitWindow time.Duration

	// CORSOrigins allows browser dashboards on these origins to read the API.
	// Empty disables CORS headers.
	CORSOrigins []string
}

// Router builds the ops HTTP handler.
type Router struct {
	index  IndexStatus
	config Config
	logger zerolog.Logger
}

// NewRouter creates a router over index.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(index IndexStatus, cfg Config, logger zerolog.Logger) *Router {
	return &Router{
		index:  index,
		config: cfg,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Handler returns the configured chi router.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging(rt.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.cors())
	r.Use(rt.rateLimit())

	r.Get("/healthz", rt.Healthz)
	r.Get("/readyz", rt.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/index", rt.IndexStats)
	})

	return r
}

// cors returns a go-chi/cors handler for the configured origins, or a no-op.
func (rt *Router) cors() func(http.Handler) http.Handler {
	if len(rt.config.CORSOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: rt.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
}

// rateLimit returns a per-IP httprate limiter, or a no-op when disabled.
func (rt *Router) rateLimit() func(http.Handler) http.Handler {
	if rt.config.RateLimit <= 0 || rt.config.RateLimitWindow <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		rt.config.RateLimit,
		rt.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
		}),
	)
}
