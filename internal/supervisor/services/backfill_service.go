// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/enrich"
)

// Backfiller enriches a batch of items lacking content DNA.
type Backfiller interface {
	Backfill(ctx context.Context, batchSize int) (enrich.BackfillResult, error)
}

// BackfillServiceConfig holds configuration for the backfill loop.
type BackfillServiceConfig struct {
	// Interval between passes. Default: 5m
	Interval time.Duration

	// BatchSize is the maximum number of items per pass. Default: 50
	BatchSize int

	// RunOnStartup runs a pass before the first tick.
	RunOnStartup bool

	// PassTimeout bounds a single pass. Default: Interval
	PassTimeout time.Duration
}

// DNABackfillService periodically attaches content DNA to items stored
// without one (created while the LLM was unavailable, or whose ItemCreated
// event was dropped).
type DNABackfillService struct {
	backfiller Backfiller
	config     BackfillServiceConfig
	logger     zerolog.Logger
	name       string
}

// NewDNABackfillService creates the backfill service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDNABackfillService(backfiller Backfiller, cfg BackfillServiceConfig, logger zerolog.Logger) *DNABackfillService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.PassTimeout <= 0 {
		cfg.PassTimeout = cfg.Interval
	}
	return &DNABackfillService{
		backfiller: backfiller,
		config:     cfg,
		logger:     logger.With().Str("service", "dna-backfill").Logger(),
		name:       "dna-backfill",
	}
}

// Serve implements suture.Service. Failed passes are logged and retried on
// the next tick.
func (s *DNABackfillService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Int("batch_size", s.config.BatchSize).
		Msg("dna backfill service starting")

	if s.config.RunOnStartup {
		s.pass(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("dna backfill service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *DNABackfillService) pass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.config.PassTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.backfiller.Backfill(passCtx, s.config.BatchSize)
	if err != nil {
		s.logger.Warn().Err(err).Msg("dna backfill pass failed")
		return
	}
	if res.Scanned == 0 {
		s.logger.Debug().Msg("no items awaiting dna")
		return
	}

	s.logger.Info().
		Int("scanned", res.Scanned).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Dur("duration", time.Since(start)).
		Msg("dna backfill pass complete")
}

// String implements fmt.Stringer for supervisor logs.
func (s *DNABackfillService) String() string {
	return s.name
}
