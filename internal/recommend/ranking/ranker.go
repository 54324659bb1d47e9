// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package ranking

import (
	"context"
	"sort"

	"github.com/tomtom215/discovery/internal/recommend"
)

// Ranker orders a surface's items for a caller.
type Ranker interface {
	Rank(ctx context.Context, items []recommend.Item, ectx recommend.EngineContext) ([]recommend.Item, error)
}

// RankerFunc adapts a function to Ranker.
type RankerFunc func(ctx context.Context, items []recommend.Item, ectx recommend.EngineContext) ([]recommend.Item, error)

// Rank calls f.
func (f RankerFunc) Rank(ctx context.Context, items []recommend.Item, ectx recommend.EngineContext) ([]recommend.Item, error) {
	return f(ctx, items, ectx)
}

// sortByScore returns items ordered by descending score, stable on ties.
func sortByScore(items []recommend.Item, scores []float64) []recommend.Item {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]recommend.Item, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
