// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide so struct metadata is
// parsed once. Field names in errors follow the json tag of the field, which
// is also the query parameter name for request structs, so clients see the
// name they sent:
//
//	type SimilarItemsRequest struct {
//	    RefID   string `json:"refId" validate:"required,itemid,max=128"`
//	    RefType string `json:"refType" validate:"required,oneof=post reel marketplace"`
//	    Limit   int    `json:"limit" validate:"gte=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
//
// # Custom Validators
//
//   - itemid: letters, digits, '-' and '_' only. Item ids are UUIDs or seeded
//     slugs, so anything else is rejected before reaching the store.
//   - notblank: the string must contain a non-whitespace character.
package validation
