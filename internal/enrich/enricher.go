// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package enrich attaches content DNA to items that were stored without one.
//
// It is driven from two places: the ItemCreated event handler enriches a
// single new item, and the backfill service sweeps the store periodically for
// anything the handler missed (LLM outage, items imported in bulk).
package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/metrics"
	"github.com/tomtom215/discovery/internal/recommend"
)

// Store reads and updates items.
type Store interface {
	ItemByID(ctx context.Context, id string, kind recommend.Kind) (*recommend.Item, error)
	ItemsWithoutDNA(ctx context.Context, limit int) ([]recommend.Item, error)
	UpdateItemDNA(ctx context.Context, id string, d *dna.ContentDNA) error
	RecordDNAAttempt(ctx context.Context, id string) error
}

// Extractor derives a descriptor from item text. A nil descriptor with a nil
// error means the text carries nothing to classify.
type Extractor interface {
	ExtractDNA(ctx context.Context, title, text string) (*dna.ContentDNA, error)
}

// Outcome describes what happened to one item.
type Outcome string

const (
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// BackfillResult summarizes one backfill pass.
type BackfillResult struct {
	Scanned int
	Updated int
	Skipped int
	Failed  int
}

// Enricher extracts and persists DNA.
type Enricher struct {
	store     Store
	extractor Extractor
	logger    zerolog.Logger
}

// New creates an Enricher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(store Store, extractor Extractor, logger zerolog.Logger) *Enricher {
	return &Enricher{
		store:     store,
		extractor: extractor,
		logger:    logger.With().Str("component", "enrich").Logger(),
	}
}

// EnrichItem extracts DNA for the item unless it already has one. Items that
// no longer exist are skipped without error.
func (e *Enricher) EnrichItem(ctx context.Context, id string, kind recommend.Kind) (Outcome, error) {
	item, err := e.store.ItemByID(ctx, id, kind)
	if errors.Is(err, recommend.ErrNotFound) {
		e.logger.Debug().Str("item_id", id).Msg("item vanished before enrichment")
		return OutcomeSkipped, nil
	}
	if err != nil {
		return OutcomeFailed, fmt.Errorf("load item %s: %w", id, err)
	}
	return e.enrich(ctx, item)
}

func (e *Enricher) enrich(ctx context.Context, item *recommend.Item) (Outcome, error) {
	if item.HasDNA() {
		return OutcomeSkipped, nil
	}

	outcome, err := e.extract(ctx, item)
	if errors.Is(err, recommend.ErrNotFound) {
		return OutcomeSkipped, nil
	}
	if outcome != OutcomeUpdated {
		e.recordAttempt(ctx, item.ID)
	}
	return outcome, err
}

func (e *Enricher) extract(ctx context.Context, item *recommend.Item) (Outcome, error) {
	d, err := e.extractor.ExtractDNA(ctx, item.Title, item.Text)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("extract dna for %s: %w", item.ID, err)
	}
	if d == nil {
		return OutcomeSkipped, nil
	}

	if err := e.store.UpdateItemDNA(ctx, item.ID, d); err != nil {
		return OutcomeFailed, fmt.Errorf("store dna for %s: %w", item.ID, err)
	}

	e.logger.Debug().
		Str("item_id", item.ID).
		Str("primary_category", d.PrimaryCategory).
		Msg("content dna attached")
	return OutcomeUpdated, nil
}

// recordAttempt pushes the item behind untried ones in later sweeps.
func (e *Enricher) recordAttempt(ctx context.Context, id string) {
	if ctx.Err() != nil {
		return
	}
	if err := e.store.RecordDNAAttempt(ctx, id); err != nil {
		e.logger.Warn().Err(err).Str("item_id", id).Msg("failed to record dna attempt")
	}
}

// Backfill enriches up to batchSize items lacking DNA. Individual failures
// are logged and counted; only a failure to list candidates is returned.
func (e *Enricher) Backfill(ctx context.Context, batchSize int) (BackfillResult, error) {
	var res BackfillResult

	items, err := e.store.ItemsWithoutDNA(ctx, batchSize)
	if err != nil {
		return res, fmt.Errorf("list items without dna: %w", err)
	}

	for i := range items {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Scanned++

		outcome, err := e.enrich(ctx, &items[i])
		metrics.RecordBackfill(string(outcome))
		switch outcome {
		case OutcomeUpdated:
			res.Updated++
		case OutcomeSkipped:
			res.Skipped++
		case OutcomeFailed:
			res.Failed++
			e.logger.Warn().Err(err).Str("item_id", items[i].ID).Msg("backfill item failed")
		}
	}
	return res, nil
}
