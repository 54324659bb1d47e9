// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/discovery/internal/models"
)

// readinessTimeout bounds the database ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthLive reports that the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"}, models.Metadata{})
}

// HealthReady reports whether the service can answer queries.
// It returns 503 while the database is unreachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	health := models.HealthStatus{
		Status:            "healthy",
		DatabaseConnected: h.db.Ping(ctx) == nil,
		LLMEnabled:        h.llm != nil,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.llm != nil {
		health.LLMBreaker = h.llm.BreakerState().String()
	}

	status := http.StatusOK
	if !health.DatabaseConnected {
		health.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	respondSuccess(w, r, status, health, models.Metadata{})
}

// Stats returns the recommendation engine counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.engine.Stats(), models.Metadata{})
}
