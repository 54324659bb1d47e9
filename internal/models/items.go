// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package models

import (
	"time"

	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/recommend"
)

// Item is the API representation of a post, reel or marketplace listing.
type Item struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	AuthorID  string           `json:"authorId"`
	Title     string           `json:"title,omitempty"`
	Text      string           `json:"text,omitempty"`
	DNA       *dna.ContentDNA  `json:"contentDna,omitempty"`
	CreatedAt *time.Time       `json:"createdAt,omitempty"`
	Stats     *EngagementStats `json:"stats,omitempty"`
	Listing   *Listing         `json:"listing,omitempty"`
}

// EngagementStats holds social counters for posts and reels.
type EngagementStats struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Views    int `json:"views"`
}

// Listing holds marketplace-only fields.
type Listing struct {
	Price     float64 `json:"price"`
	Location  string  `json:"location,omitempty"`
	SoldCount int     `json:"soldCount"`
	IsAd      bool    `json:"isAd"`
}

// ItemFromDomain converts a recommend.Item for output.
func ItemFromDomain(it *recommend.Item) Item {
	out := Item{
		ID:       it.ID,
		Kind:     string(it.Kind),
		AuthorID: it.AuthorID,
		Title:    it.Title,
		Text:     it.Text,
		DNA:      it.DNA,
	}
	if !it.CreatedAt.IsZero() {
		t := it.CreatedAt
		out.CreatedAt = &t
	}
	if it.Kind == recommend.KindMarketplace {
		out.Listing = &Listing{
			Price:     it.Price,
			Location:  it.Location,
			SoldCount: it.SoldCount,
			IsAd:      it.IsAd,
		}
	} else {
		out.Stats = &EngagementStats{
			Likes:    it.Likes,
			Comments: it.Comments,
			Views:    it.Views,
		}
	}
	return out
}

// ItemsFromDomain converts a slice, never returning nil.
func ItemsFromDomain(items []recommend.Item) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = ItemFromDomain(&items[i])
	}
	return out
}

// CreateItemRequest is the body of POST /api/v1/items.
type CreateItemRequest struct {
	Kind     string          `json:"kind" validate:"required,oneof=post reel marketplace"`
	Title    string          `json:"title" validate:"omitempty,notblank,max=200"`
	Text     string          `json:"text" validate:"required,notblank,max=5000"`
	DNA      *dna.ContentDNA `json:"contentDna,omitempty"`
	Price    float64         `json:"price" validate:"gte=0"`
	Location string          `json:"location" validate:"max=200"`
	IsAd     bool            `json:"isAd"`
}

// SimilarItemsRequest holds the parsed query of GET /api/v1/recommendations.
type SimilarItemsRequest struct {
	RefID   string `json:"refId" validate:"required,itemid,max=128"`
	RefType string `json:"refType" validate:"required,oneof=post reel marketplace"`
	Limit   int    `json:"limit" validate:"gte=0"`
}

// SurfaceRequest holds the parsed query of GET /api/v1/discovery/{surface}.
type SurfaceRequest struct {
	Surface string `json:"surface" validate:"required,oneof=feed reels marketplace"`
	Limit   int    `json:"limit" validate:"gte=0"`
}
