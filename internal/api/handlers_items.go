// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/discovery/internal/auth"
	"github.com/tomtom215/discovery/internal/events"
	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/models"
	"github.com/tomtom215/discovery/internal/recommend"
)

// CreateItem stores a post, reel or marketplace listing authored by the caller
// and announces it with an ItemCreated event. Items submitted without content
// DNA get one from the extraction handler.
//
// A failed publish does not fail the request: the item is stored and the
// backfill service picks it up later.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required", nil)
		return
	}

	var req models.CreateItemRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeInvalid, err.Error(), nil)
		return
	}
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	kind, err := recommend.ParseKind(req.Kind)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	if req.DNA != nil {
		req.DNA.Normalize()
		if err := req.DNA.Validate(); err != nil {
			respondError(w, r, http.StatusBadRequest, models.CodeValidation, "contentDna: "+err.Error(), nil)
			return
		}
	}

	item := &recommend.Item{
		Kind:     kind,
		AuthorID: user.ID,
		Title:    strings.TrimSpace(req.Title),
		Text:     strings.TrimSpace(req.Text),
		DNA:      req.DNA,
	}
	if kind == recommend.KindMarketplace {
		item.Price = req.Price
		item.Location = strings.TrimSpace(req.Location)
		item.IsAd = req.IsAd
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	if err := h.store.InsertItem(ctx, item); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if h.events != nil {
		if err := h.events.PublishItemCreated(ctx, events.NewItemCreated(item)); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).
				Str("item_id", item.ID).
				Msg("Failed to publish item created event, leaving item to backfill")
		}
	}

	respondSuccess(w, r, http.StatusCreated, models.ItemFromDomain(item), models.Metadata{Count: 1})
}
