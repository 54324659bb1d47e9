// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/discovery/internal/discovery"
	"github.com/tomtom215/discovery/internal/models"
	"github.com/tomtom215/discovery/internal/recommend"
)

// Discovery orders one surface (feed, reels or marketplace) for the caller.
//
// The surface pool is the newest items of the surface's kinds. Callers with
// an interest descriptor get DNA-similar items; everyone else gets the
// surface's fallback ranking. metadata.strategy reports which one ran.
func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := parseIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)
		return
	}

	req := models.SurfaceRequest{
		Surface: strings.ToLower(chi.URLParam(r, "surface")),
		Limit:   limit,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	surface, err := discovery.ParseSurface(req.Surface)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	pool, err := h.store.ListItems(ctx, recommend.ListOptions{
		Kinds: surface.Kinds(),
		Limit: h.config.SurfacePoolSize,
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.CodeInternal, "Internal server error",
			fmt.Errorf("load %s pool: %w", surface, err))
		return
	}

	items, strategy, err := h.hub.ServeWithStrategy(ctx, surface, pool)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	if n := clampLimit(req.Limit, h.config.DefaultLimit, h.config.MaxLimit); len(items) > n {
		items = items[:n]
	}

	respondSuccess(w, r, http.StatusOK, models.ItemsFromDomain(items), models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       len(items),
		Strategy:    string(strategy),
	})
}
