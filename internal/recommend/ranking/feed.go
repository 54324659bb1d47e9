// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package ranking

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/discovery/internal/recommend"
)

// Feed weights.
const (
	FeedBase             = 1000.0
	FeedFollowBonus      = 5000.0
	FeedRecencyBase      = 2000.0
	FeedDecay            = 1.8
	FeedEngagementWeight = 150.0
)

// FollowGraph reports whom a user follows.
type FollowGraph interface {
	// Following returns the ids of authors userID follows with an accepted follow.
	Following(ctx context.Context, userID string) ([]string, error)
}

// FeedRanker scores posts by social proximity, recency and engagement.
type FeedRanker struct {
	follows FollowGraph
	now     func() time.Time
}

// NewFeedRanker creates a feed ranker. follows may be nil, in which case no
// follow bonus is ever applied.
func NewFeedRanker(follows FollowGraph) *FeedRanker {
	return &FeedRanker{follows: follows, now: time.Now}
}

// Rank implements Ranker.
func (r *FeedRanker) Rank(ctx context.Context, items []recommend.Item, ectx recommend.EngineContext) ([]recommend.Item, error) {
	following := map[string]struct{}{}
	if ectx.User != nil && r.follows != nil {
		ids, err := r.follows.Following(ctx, ectx.User.ID)
		if err != nil {
			return nil, fmt.Errorf("load follow graph: %w", err)
		}
		for _, id := range ids {
			following[id] = struct{}{}
		}
	}

	now := r.now()
	scores := make([]float64, len(items))
	for i := range items {
		_, followed := following[items[i].AuthorID]
		scores[i] = feedScore(&items[i], followed, now)
	}
	return sortByScore(items, scores), nil
}

func feedScore(item *recommend.Item, followed bool, now time.Time) float64 {
	score := FeedBase
	if followed {
		score += FeedFollowBonus
	}

	// Items without a timestamp are treated as created at the epoch.
	ageHours := math.Max(0, float64(now.UnixMilli()-item.Timestamp())/float64(time.Hour/time.Millisecond))
	score += FeedRecencyBase / math.Pow(ageHours+1, FeedDecay)

	interactions := float64(item.Likes*2 + item.Comments*5)
	score += interactions * FeedEngagementWeight
	return score
}
