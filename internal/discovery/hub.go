// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package discovery orchestrates the feed, reels and marketplace surfaces.
//
// For every request the Hub resolves the caller's interest descriptor. When
// one exists the surface is served entirely by DNA similarity; otherwise the
// surface's fallback ranker orders the items. The two strategies are never
// blended.
package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/metrics"
	"github.com/tomtom215/discovery/internal/recommend"
	"github.com/tomtom215/discovery/internal/recommend/ranking"
)

// Surface names a discovery surface.
type Surface string

const (
	SurfaceFeed        Surface = "feed"
	SurfaceReels       Surface = "reels"
	SurfaceMarketplace Surface = "marketplace"
)

// ParseSurface converts a wire value into a Surface.
func ParseSurface(s string) (Surface, error) {
	switch Surface(s) {
	case SurfaceFeed, SurfaceReels, SurfaceMarketplace:
		return Surface(s), nil
	default:
		return "", fmt.Errorf("%w: unknown surface %q", recommend.ErrInvalidInput, s)
	}
}

// Kinds returns the item kinds shown on the surface.
func (s Surface) Kinds() []recommend.Kind {
	switch s {
	case SurfaceFeed:
		return []recommend.Kind{recommend.KindPost}
	case SurfaceReels:
		return []recommend.Kind{recommend.KindReel}
	case SurfaceMarketplace:
		return []recommend.Kind{recommend.KindMarketplace}
	default:
		return nil
	}
}

// Identity reports the caller of the current request.
type Identity interface {
	CurrentUser(ctx context.Context) (*recommend.User, error)
}

// InterestResolver resolves the caller's interest descriptor.
type InterestResolver interface {
	CurrentInterestDNA(ctx context.Context) (*dna.ContentDNA, error)
}

// Recommender ranks items by similarity to a descriptor.
type Recommender interface {
	Recommend(ref *dna.ContentDNA, candidates []recommend.Item) []recommend.Item
}

// Rankers holds one fallback ranker per surface.
type Rankers struct {
	Feed        ranking.Ranker
	Reels       ranking.Ranker
	Marketplace ranking.Ranker
}

func (r Rankers) validate() error {
	if r.Feed == nil || r.Reels == nil || r.Marketplace == nil {
		return errors.New("every surface needs a fallback ranker")
	}
	return nil
}

func (r Rankers) forSurface(s Surface) ranking.Ranker {
	switch s {
	case SurfaceFeed:
		return r.Feed
	case SurfaceReels:
		return r.Reels
	case SurfaceMarketplace:
		return r.Marketplace
	default:
		return nil
	}
}

// Hub routes each surface to DNA similarity or its fallback ranker.
type Hub struct {
	identity    Identity
	interests   InterestResolver
	recommender Recommender
	rankers     Rankers
	logger      zerolog.Logger
}

// NewHub creates a Hub. All collaborators are required.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHub(identity Identity, interests InterestResolver, recommender Recommender, rankers Rankers, logger zerolog.Logger) (*Hub, error) {
	if identity == nil || interests == nil || recommender == nil {
		return nil, errors.New("discovery: identity, interest resolver and recommender are required")
	}
	if err := rankers.validate(); err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	return &Hub{
		identity:    identity,
		interests:   interests,
		recommender: recommender,
		rankers:     rankers,
		logger:      logger.With().Str("component", "discovery").Logger(),
	}, nil
}

// Feed orders feed posts for the caller.
func (h *Hub) Feed(ctx context.Context, posts []recommend.Item) ([]recommend.Item, error) {
	return h.Serve(ctx, SurfaceFeed, posts)
}

// Reels orders reels for the caller.
func (h *Hub) Reels(ctx context.Context, reels []recommend.Item) ([]recommend.Item, error) {
	return h.Serve(ctx, SurfaceReels, reels)
}

// Marketplace orders marketplace listings for the caller.
func (h *Hub) Marketplace(ctx context.Context, listings []recommend.Item) ([]recommend.Item, error) {
	return h.Serve(ctx, SurfaceMarketplace, listings)
}

// BuildContext resolves the caller into an EngineContext.
func (h *Hub) BuildContext(ctx context.Context) (recommend.EngineContext, error) {
	user, err := h.identity.CurrentUser(ctx)
	if err != nil {
		return recommend.EngineContext{}, fmt.Errorf("resolve identity: %w", err)
	}
	return recommend.EngineContext{User: user}, nil
}

// Strategy names how a surface was ordered.
type Strategy string

// Strategies reported by ServeWithStrategy.
const (
	StrategyDNA      Strategy = "dna"
	StrategyFallback Strategy = "fallback"
)

// Serve orders items for the given surface.
//
// The result is a DNA-filtered subset when the caller has an interest
// descriptor, and a permutation of items otherwise.
func (h *Hub) Serve(ctx context.Context, surface Surface, items []recommend.Item) ([]recommend.Item, error) {
	out, _, err := h.ServeWithStrategy(ctx, surface, items)
	return out, err
}

// ServeWithStrategy is Serve, also reporting which strategy produced the result.
func (h *Hub) ServeWithStrategy(ctx context.Context, surface Surface, items []recommend.Item) ([]recommend.Item, Strategy, error) {
	ranker := h.rankers.forSurface(surface)
	if ranker == nil {
		return nil, "", fmt.Errorf("%w: unknown surface %q", recommend.ErrInvalidInput, surface)
	}

	ectx, err := h.BuildContext(ctx)
	if err != nil {
		return nil, "", err
	}

	interest, err := h.interests.CurrentInterestDNA(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("resolve interest: %w", err)
	}

	logger := h.logger.With().
		Str("surface", string(surface)).
		Bool("anonymous", ectx.Anonymous()).
		Int("items", len(items)).
		Logger()

	if interest != nil {
		out := h.recommender.Recommend(interest, items)
		metrics.RecordSurface(string(surface), true)
		logger.Debug().Int("results", len(out)).Msg("served by interest dna")
		return out, StrategyDNA, nil
	}

	out, err := ranker.Rank(ctx, items, ectx)
	if err != nil {
		return nil, "", fmt.Errorf("rank %s: %w", surface, err)
	}
	metrics.RecordSurface(string(surface), false)
	logger.Debug().Int("results", len(out)).Msg("served by fallback ranker")
	return out, StrategyFallback, nil
}
