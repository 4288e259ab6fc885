// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// Response is the JSON envelope for every API reply.
type Response struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Healthz handles GET /healthz. The process is alive if it can answer.
func (rt *Router) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz: 200 once a snapshot is installed, 503 before.
func (rt *Router) Readyz(w http.ResponseWriter, _ *http.Request) {
	if !rt.index.Ready() {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Index has not been built yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// IndexStats handles GET /api/v1/index.
func (rt *Router) IndexStats(w http.ResponseWriter, r *http.Request) {
	stats := rt.index.Stats()
	logging.Ctx(r.Context()).Debug().
		Bool("ready", stats.Ready).
		Int("entries", stats.Entries).
		Msg("index stats served")
	respondJSON(w, http.StatusOK, stats)
}

// respondJSON writes data inside a success envelope.
func respondJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, &Response{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, &Response{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Now().UTC()},
		Error:    &APIError{Code: code, Message: message},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}
