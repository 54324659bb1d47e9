// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package interest derives a caller's current interest descriptor from the
// content they have authored.
package interest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/recommend"
)

// Identity reports the caller of the current request.
type Identity interface {
	// CurrentUser returns the authenticated user, or nil for anonymous callers.
	CurrentUser(ctx context.Context) (*recommend.User, error)
}

// AuthoredContent lists a user's items.
type AuthoredContent interface {
	ListItems(ctx context.Context, opts recommend.ListOptions) ([]recommend.Item, error)
}

// Resolver picks the descriptor of the caller's most recent authored item.
type Resolver struct {
	identity Identity
	content  AuthoredContent
	logger   zerolog.Logger
}

// NewResolver creates a resolver.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewResolver(identity Identity, content AuthoredContent, logger zerolog.Logger) *Resolver {
	return &Resolver{
		identity: identity,
		content:  content,
		logger:   logger.With().Str("component", "interest").Logger(),
	}
}

// CurrentInterestDNA returns the caller's interest descriptor, or nil when the
// caller is anonymous or has authored nothing with a descriptor.
//
// The most recent item wins. Items without a creation time count as oldest.
// Among items with the same timestamp the one listed first wins.
func (r *Resolver) CurrentInterestDNA(ctx context.Context) (*dna.ContentDNA, error) {
	user, err := r.identity.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	return r.InterestFor(ctx, user.ID)
}

// InterestFor resolves the interest descriptor of a specific user.
func (r *Resolver) InterestFor(ctx context.Context, userID string) (*dna.ContentDNA, error) {
	if userID == "" {
		return nil, nil
	}

	authored, err := r.content.ListItems(ctx, recommend.ListOptions{
		AuthorID:    userID,
		WithDNAOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list authored items: %w", err)
	}

	latest := Latest(authored)
	if latest == nil {
		r.logger.Debug().Str("user_id", userID).Msg("no authored items with dna")
		return nil, nil
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("item_id", latest.ID).
		Str("primary_category", latest.DNA.PrimaryCategory).
		Msg("interest resolved")
	return latest.DNA, nil
}

// Latest returns the DNA-bearing item with the greatest timestamp, or nil.
// The first item wins ties.
func Latest(items []recommend.Item) *recommend.Item {
	var best *recommend.Item
	for i := range items {
		if items[i].DNA == nil {
			continue
		}
		if best == nil || items[i].Timestamp() > best.Timestamp() {
			best = &items[i]
		}
	}
	return best
}
