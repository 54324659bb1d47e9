// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package ranking

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/discovery/internal/recommend"
)

// Marketplace weights.
const (
	MarketBase        = 2000.0
	MarketGeoBonus    = 8000.0
	MarketTrustWeight = 2.0
	MarketSalesWeight = 500.0
	MarketAdBonus     = 15000.0

	// Callers whose phone carries this country code get the geo bonus on
	// listings located in HomeCountry.
	HomeCountryCode = "55"
	HomeCountry     = "Brasil"
)

// SellerDirectory resolves seller trust scores.
type SellerDirectory interface {
	// TrustScores returns the trust score per seller id. Unknown sellers are omitted.
	TrustScores(ctx context.Context, sellerIDs []string) (map[string]int, error)
}

// MarketRanker scores listings by locality, seller trust, sales and ad status.
type MarketRanker struct {
	sellers SellerDirectory
}

// NewMarketRanker creates a marketplace ranker. sellers may be nil.
func NewMarketRanker(sellers SellerDirectory) *MarketRanker {
	return &MarketRanker{sellers: sellers}
}

// Rank implements Ranker.
func (r *MarketRanker) Rank(ctx context.Context, items []recommend.Item, ectx recommend.EngineContext) ([]recommend.Item, error) {
	trust := map[string]int{}
	if r.sellers != nil && len(items) > 0 {
		ids := make([]string, 0, len(items))
		seen := make(map[string]struct{}, len(items))
		for i := range items {
			if _, ok := seen[items[i].AuthorID]; ok {
				continue
			}
			seen[items[i].AuthorID] = struct{}{}
			ids = append(ids, items[i].AuthorID)
		}
		var err error
		if trust, err = r.sellers.TrustScores(ctx, ids); err != nil {
			return nil, fmt.Errorf("load seller trust scores: %w", err)
		}
	}

	domestic := ectx.User != nil && strings.HasPrefix(ectx.User.Phone, HomeCountryCode)
	scores := make([]float64, len(items))
	for i := range items {
		scores[i] = marketScore(&items[i], domestic, trust[items[i].AuthorID])
	}
	return sortByScore(items, scores), nil
}

func marketScore(item *recommend.Item, domestic bool, trustScore int) float64 {
	score := MarketBase
	if domestic && strings.Contains(item.Location, HomeCountry) {
		score += MarketGeoBonus
	}
	score += float64(trustScore) * MarketTrustWeight
	score += float64(item.SoldCount) * MarketSalesWeight
	if item.IsAd {
		score += MarketAdBonus
	}
	return score
}
