// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/metrics"
)

// ListOptions selects items from a ContentStore.
type ListOptions struct {
	// Kinds restricts the listing. Empty means every kind.
	Kinds []Kind

	// Limit caps the number of items. Zero means no limit.
	Limit int

	// AuthorID restricts the listing to one author when non-empty.
	AuthorID string

	// WithDNAOnly skips items without a descriptor.
	WithDNAOnly bool
}

// ContentStore provides items to the engine.
//
// ListItems must return items newest first with a deterministic tie-break,
// since ranking is stable and inherits that order for equal scores.
type ContentStore interface {
	// ItemByID returns the item with the given id and kind, or ErrNotFound.
	ItemByID(ctx context.Context, id string, kind Kind) (*Item, error)

	// ListItems returns items matching opts.
	ListItems(ctx context.Context, opts ListOptions) ([]Item, error)
}

// SimilarRequest asks for items similar to a stored reference item.
type SimilarRequest struct {
	RefID   string
	RefKind Kind

	// Limit caps the result. Zero selects Config.Limits.DefaultK.
	Limit int
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests      int64 `json:"requests"`
	EmptyResults  int64 `json:"empty_results"`
	Errors        int64 `json:"errors"`
	ItemsReturned int64 `json:"items_returned"`
}

// Engine ranks candidates against a reference descriptor.
type Engine struct {
	config *Config
	store  ContentStore
	logger zerolog.Logger

	requestCount  atomic.Int64
	emptyCount    atomic.Int64
	errorCount    atomic.Int64
	returnedCount atomic.Int64
}

// NewEngine creates an engine. store may be nil when only Recommend is used.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, store ContentStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg.Clone(),
		store:  store,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend filters and orders candidates by similarity to ref using the
// configured threshold.
func (e *Engine) Recommend(ref *dna.ContentDNA, candidates []Item) []Item {
	out := Recommend(ref, candidates, e.config.Threshold)
	e.record("recommend", len(candidates), len(out))
	return out
}

// SimilarItems returns stored items similar to the referenced item.
//
// The candidate pool is the newest posts and reels plus marketplace listings,
// excluding the reference item itself.
func (e *Engine) SimilarItems(ctx context.Context, req SimilarRequest) ([]Item, error) {
	if e.store == nil {
		return nil, errors.New("recommend: no content store configured")
	}

	limit, err := e.validateSimilarRequest(&req)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With().
		Str("ref_id", req.RefID).
		Str("ref_kind", req.RefKind.String()).
		Int("limit", limit).
		Logger()

	ref, err := e.store.ItemByID(ctx, req.RefID, req.RefKind)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("get reference item: %w", err)
	}
	if ref == nil {
		return nil, fmt.Errorf("get reference item %s: %w", req.RefID, ErrNotFound)
	}
	if ref.DNA == nil {
		return nil, fmt.Errorf("reference item %s: %w", req.RefID, ErrNoDNA)
	}

	pool, err := e.candidatePool(ctx, ref.ID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	start := time.Now()
	ranked := Recommend(ref.DNA, pool, e.config.Threshold)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	e.record("similar", len(pool), len(ranked))

	logger.Debug().
		Int("candidates", len(pool)).
		Int("results", len(ranked)).
		Dur("duration", time.Since(start)).
		Msg("similar items ranked")

	return ranked, nil
}

func (e *Engine) validateSimilarRequest(req *SimilarRequest) (int, error) {
	req.RefID = strings.TrimSpace(req.RefID)
	if req.RefID == "" {
		return 0, fmt.Errorf("%w: reference id is required", ErrInvalidInput)
	}
	if !req.RefKind.Valid() {
		return 0, fmt.Errorf("%w: unknown reference kind %q", ErrInvalidInput, req.RefKind)
	}

	limit := req.Limit
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	case limit == 0:
		limit = e.config.Limits.DefaultK
	case limit > e.config.Limits.MaxK:
		limit = e.config.Limits.MaxK
	}
	return limit, nil
}

// candidatePool loads posts and reels first, then marketplace listings.
func (e *Engine) candidatePool(ctx context.Context, excludeID string) ([]Item, error) {
	posts, err := e.store.ListItems(ctx, ListOptions{
		Kinds: []Kind{KindPost, KindReel},
		Limit: e.config.Limits.PostPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list post candidates: %w", err)
	}

	var listings []Item
	if e.config.Limits.MarketplacePoolSize > 0 {
		listings, err = e.store.ListItems(ctx, ListOptions{
			Kinds: []Kind{KindMarketplace},
			Limit: e.config.Limits.MarketplacePoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("list marketplace candidates: %w", err)
		}
	}

	pool := make([]Item, 0, len(posts)+len(listings))
	for _, group := range [][]Item{posts, listings} {
		for i := range group {
			if group[i].ID == excludeID {
				continue
			}
			pool = append(pool, group[i])
		}
	}
	return pool, nil
}

func (e *Engine) record(operation string, candidates, results int) {
	e.requestCount.Add(1)
	e.returnedCount.Add(int64(results))
	if results == 0 {
		e.emptyCount.Add(1)
	}
	metrics.RecordRecommendation(operation, candidates, results)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:      e.requestCount.Load(),
		EmptyResults:  e.emptyCount.Load(),
		Errors:        e.errorCount.Load(),
		ItemsReturned: e.returnedCount.Load(),
	}
}

// Score rates every candidate against ref, keeps those with a score at or
// above threshold and sorts them by descending score. Equal scores keep
// their input order. A nil ref yields an empty result.
func Score(ref *dna.ContentDNA, candidates []Item, threshold float64) []ScoredItem {
	if ref == nil || len(candidates) == 0 {
		return []ScoredItem{}
	}

	scored := make([]ScoredItem, 0, len(candidates))
	for i := range candidates {
		var s float64
		if candidates[i].DNA != nil {
			s = dna.Similarity(ref, candidates[i].DNA)
		}
		if s >= threshold {
			scored = append(scored, ScoredItem{Item: candidates[i], Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Recommend is Score without the scores.
func Recommend(ref *dna.ContentDNA, candidates []Item, threshold float64) []Item {
	scored := Score(ref, candidates, threshold)
	out := make([]Item, len(scored))
	for i := range scored {
		out[i] = scored[i].Item
	}
	return out
}
