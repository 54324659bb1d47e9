// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/discovery/internal/models"
	"github.com/tomtom215/discovery/internal/recommend"
)

// SimilarItems returns stored items whose content DNA resembles a reference item.
//
// Query parameters: refId (required), refType (post, reel or marketplace,
// required) and limit (optional, default and maximum from configuration).
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := parseIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)
		return
	}

	q := r.URL.Query()
	req := models.SimilarItemsRequest{
		RefID:   strings.TrimSpace(q.Get("refId")),
		RefType: strings.ToLower(strings.TrimSpace(q.Get("refType"))),
		Limit:   limit,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	kind, err := recommend.ParseKind(req.RefType)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	items, err := h.engine.SimilarItems(ctx, recommend.SimilarRequest{
		RefID:   req.RefID,
		RefKind: kind,
		Limit:   clampLimit(req.Limit, h.config.DefaultLimit, h.config.MaxLimit),
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.ItemsFromDomain(items), models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       len(items),
		Strategy:    "dna",
	})
}
