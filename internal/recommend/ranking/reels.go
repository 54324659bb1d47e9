// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package ranking

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/discovery/internal/recommend"
)

// Reels weights.
const (
	ReelsBase           = 5000.0
	ReelsViewWeight     = 300.0
	ReelsRetentionBoost = 1000.0
	ReelsAffinityWeight = 2500.0

	// NeutralAffinity is used when no affinity can be computed.
	NeutralAffinity = 5
	MinAffinity     = 1
	MaxAffinity     = 10

	// DefaultAffinityLimit bounds how many leading reels get an affinity lookup.
	DefaultAffinityLimit = 10
)

// AffinityScorer rates how well a reel's text matches a user's stated
// interests on a 1 to 10 scale.
type AffinityScorer interface {
	Affinity(ctx context.Context, text, bio string) (int, error)
}

// ReelsRanker scores reels by reach, retention and interest affinity.
type ReelsRanker struct {
	scorer      AffinityScorer
	limit       int
	concurrency int
	logger      zerolog.Logger
}

// ReelsOption configures a ReelsRanker.
type ReelsOption func(*ReelsRanker)

// WithAffinityLimit sets how many leading reels get an affinity lookup.
func WithAffinityLimit(n int) ReelsOption {
	return func(r *ReelsRanker) {
		if n >= 0 {
			r.limit = n
		}
	}
}

// WithConcurrency bounds parallel affinity lookups.
func WithConcurrency(n int) ReelsOption {
	return func(r *ReelsRanker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the ranker's logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(logger zerolog.Logger) ReelsOption {
	return func(r *ReelsRanker) {
		r.logger = logger
	}
}

// NewReelsRanker creates a reels ranker. scorer may be nil, in which case
// callers with a bio get the neutral affinity.
func NewReelsRanker(scorer AffinityScorer, opts ...ReelsOption) *ReelsRanker {
	r := &ReelsRanker{
		scorer:      scorer,
		limit:       DefaultAffinityLimit,
		concurrency: 4,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank implements Ranker. Affinity failures degrade to NeutralAffinity and
// are never returned.
func (r *ReelsRanker) Rank(ctx context.Context, items []recommend.Item, ectx recommend.EngineContext) ([]recommend.Item, error) {
	affinity := r.affinities(ctx, items, ectx)

	scores := make([]float64, len(items))
	for i := range items {
		scores[i] = reelScore(&items[i], affinity[i])
	}
	return sortByScore(items, scores), nil
}

// affinities returns one entry per item; zero means no affinity bonus.
func (r *ReelsRanker) affinities(ctx context.Context, items []recommend.Item, ectx recommend.EngineContext) []int {
	out := make([]int, len(items))
	if ectx.User == nil || ectx.User.Bio == "" {
		return out
	}

	n := min(r.limit, len(items))
	if r.scorer == nil {
		for i := 0; i < n; i++ {
			out[i] = NeutralAffinity
		}
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			out[i] = r.affinity(gctx, items[i], ectx.User.Bio)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return out
}

//nolint:gocritic // Item copy is fine for a single call
func (r *ReelsRanker) affinity(ctx context.Context, item recommend.Item, bio string) int {
	score, err := r.scorer.Affinity(ctx, item.Text, bio)
	if err != nil {
		r.logger.Debug().Err(err).Str("item_id", item.ID).Msg("affinity unavailable, using neutral score")
		return NeutralAffinity
	}
	return clampAffinity(score)
}

func clampAffinity(score int) int {
	switch {
	case score < MinAffinity:
		return MinAffinity
	case score > MaxAffinity:
		return MaxAffinity
	default:
		return score
	}
}

func reelScore(item *recommend.Item, affinity int) float64 {
	score := ReelsBase
	score += float64(item.Views) * ReelsViewWeight
	score += float64(affinity) * ReelsAffinityWeight

	if item.Views > 0 {
		score += float64(item.Likes) / float64(item.Views) * ReelsRetentionBoost
	}
	return score
}
