// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/discovery/internal/auth"
	"github.com/tomtom215/discovery/internal/cache"
	"github.com/tomtom215/discovery/internal/config"
	"github.com/tomtom215/discovery/internal/database"
	"github.com/tomtom215/discovery/internal/discovery"
	"github.com/tomtom215/discovery/internal/enrich"
	"github.com/tomtom215/discovery/internal/events"
	"github.com/tomtom215/discovery/internal/interest"
	"github.com/tomtom215/discovery/internal/llm"
	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/recommend"
	"github.com/tomtom215/discovery/internal/recommend/ranking"
)

// demoUserID is the seeded account a development token is issued for.
const demoUserID = "u-ana"

// intelligence holds the optional LLM client and the affinity scorer built on it.
type intelligence struct {
	client *llm.Client
	scorer ranking.AffinityScorer
	store  *badger.DB
}

// Close releases the affinity cache store.
func (i *intelligence) Close() {
	if i.store == nil {
		return
	}
	if err := i.store.Close(); err != nil {
		logging.Err(err).Msg("Error closing affinity cache")
	}
}

// initLLM builds the LLM client and its Badger-backed affinity cache.
// With the LLM disabled the returned value has no client and no scorer, and
// reels fall back to neutral affinity.
func initLLM(cfg *config.Config) (*intelligence, error) {
	if !cfg.LLM.Enabled {
		logging.Info().Msg("LLM disabled (LLM_ENABLED=false), DNA extraction and reel affinity are off")
		return &intelligence{}, nil
	}

	logger := logging.Logger()
	client, err := llm.NewClient(&cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	store, err := cache.OpenBadger(&cfg.Cache, logger)
	if err != nil {
		// The in-process LRU still deduplicates within this run.
		logging.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("Affinity cache unavailable, using memory only")
	}

	logging.Info().
		Str("model", cfg.LLM.Model).
		Bool("persistent_cache", store != nil).
		Msg("LLM client initialized")

	return &intelligence{
		client: client,
		scorer: cache.NewAffinityCache(client, store, cfg.Cache.AffinityTTL, logger),
		store:  store,
	}, nil
}

// recommendation groups the ranking components the API depends on.
type recommendation struct {
	engine *recommend.Engine
	hub    *discovery.Hub
}

func recommendConfig(cfg *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		Threshold: cfg.Threshold,
		Limits: recommend.LimitsConfig{
			DefaultK:            cfg.DefaultLimit,
			MaxK:                cfg.MaxLimit,
			PostPoolSize:        cfg.PostPoolSize,
			MarketplacePoolSize: cfg.MarketplacePoolSize,
		},
	}
}

func initRecommendation(cfg *config.Config, db *database.DB, intel *intelligence) (*recommendation, error) {
	logger := logging.Logger()

	engine, err := recommend.NewEngine(recommendConfig(&cfg.Recommend), db, logger)
	if err != nil {
		return nil, fmt.Errorf("init recommendation engine: %w", err)
	}

	identity := auth.Identity{}
	resolver := interest.NewResolver(identity, db, logger)

	rankers := discovery.Rankers{
		Feed: ranking.NewFeedRanker(db),
		Reels: ranking.NewReelsRanker(intel.scorer,
			ranking.WithAffinityLimit(cfg.LLM.AffinityLimit),
			ranking.WithConcurrency(cfg.LLM.AffinityConcurrency),
			ranking.WithLogger(logging.WithComponent("reels")),
		),
		Marketplace: ranking.NewMarketRanker(db),
	}

	hub, err := discovery.NewHub(identity, resolver, engine, rankers, logger)
	if err != nil {
		return nil, fmt.Errorf("init discovery hub: %w", err)
	}
	return &recommendation{engine: engine, hub: hub}, nil
}

// initEvents creates the event bus. When the LLM is enabled it also registers
// the DNA extraction handler and returns the enricher for the backfill service.
func initEvents(cfg *config.Config, db *database.DB, intel *intelligence) (*events.Bus, *enrich.Enricher, error) {
	logger := logging.Logger()

	bus, err := events.NewBus(&cfg.Events, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init event bus: %w", err)
	}
	if intel.client == nil {
		return bus, nil, nil
	}

	enricher := enrich.New(db, intel.client, logger)
	events.Register(bus, enricher, logger)
	return bus, enricher, nil
}

// resolveJWTSecret fills an empty development secret with random bytes.
// Tokens signed with it stop validating on restart.
func resolveJWTSecret(sec *config.SecurityConfig, production bool) error {
	if sec.JWTSecret != "" {
		return nil
	}
	if production {
		return fmt.Errorf("security.jwt_secret is required in production")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate jwt secret: %w", err)
	}
	sec.JWTSecret = hex.EncodeToString(buf)
	logging.Warn().Msg("JWT_SECRET not set, using a random secret for this process")
	return nil
}

// issueDemoToken logs a bearer token for the seeded demo account.
func issueDemoToken(ctx context.Context, jwtManager *auth.JWTManager, db *database.DB) {
	user, err := db.UserByID(ctx, demoUserID)
	if err != nil {
		logging.Warn().Err(err).Msg("Demo user not found, no development token issued")
		return
	}
	token, err := jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to issue development token")
		return
	}
	logging.NewAuthLogger(logging.Logger()).LogTokenIssued(user.ID, user.Email)
	logging.Info().Str("user_id", user.ID).Str("token", token).Msg("Development bearer token")
}
