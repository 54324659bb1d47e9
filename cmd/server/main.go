// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package main is the entry point for the discovery server.
//
// The server ranks posts, reels and marketplace listings by content DNA
// similarity. It initializes components in this order:
//
//  1. Configuration: defaults, optional YAML file, environment (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Database: DuckDB content store, optional demo catalog
//  4. LLM (optional): DNA extraction and reel affinity over an OpenAI-compatible API
//  5. Recommendation: engine, interest resolver, fallback rankers, discovery hub
//  6. Events: in-process Watermill bus feeding the DNA extraction handler
//  7. HTTP: chi router with JWT identity
//  8. Supervisor tree: HTTP server, event router, DNA backfill
//
// SIGINT and SIGTERM cancel the root context; the supervisor stops every
// service and the deferred closers release the event bus, the affinity
// cache and the database.
//
// Example:
//
//	export DUCKDB_PATH=./discovery.duckdb
//	export SEED_DEMO_DATA=true
//	export LOG_FORMAT=console
//	./discovery
//
// With DNA extraction:
//
//	export LLM_ENABLED=true
//	export OPENAI_API_KEY=sk-...
//	export BACKFILL_ENABLED=true
//	./discovery
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tomtom215/discovery/internal/api"
	"github.com/tomtom215/discovery/internal/auth"
	"github.com/tomtom215/discovery/internal/config"
	"github.com/tomtom215/discovery/internal/database"
	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/supervisor"
	"github.com/tomtom215/discovery/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if err := run(cfg); err != nil {
		logging.Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential setup steps
func run(cfg *config.Config) error {
	logger := logging.Logger()
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("llm_enabled", cfg.LLM.Enabled).
		Bool("backfill_enabled", cfg.Backfill.Enabled).
		Msg("Starting discovery server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("path", db.Path()).Msg("Database initialized")

	if cfg.Database.SeedDemoData {
		if _, err := db.SeedDemoData(ctx); err != nil {
			return err
		}
	}

	if err := resolveJWTSecret(&cfg.Security, cfg.Server.IsProduction()); err != nil {
		return err
	}
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}
	if cfg.Database.SeedDemoData && !cfg.Server.IsProduction() {
		issueDemoToken(ctx, jwtManager, db)
	}

	intel, err := initLLM(cfg)
	if err != nil {
		return err
	}
	defer intel.Close()

	rec, err := initRecommendation(cfg, db, intel)
	if err != nil {
		return err
	}

	bus, enricher, err := initEvents(cfg, db, intel)
	if err != nil {
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Err(err).Msg("Error closing event bus")
		}
	}()

	deps := api.Dependencies{
		Engine: rec.engine,
		Hub:    rec.hub,
		Store:  db,
		DB:     db,
		Events: bus.Publisher(),
	}
	if intel.client != nil {
		deps.LLM = intel.client
	}
	handler, err := api.NewHandler(&cfg.Recommend, deps)
	if err != nil {
		return err
	}
	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		auth.NewMiddleware(jwtManager, db, logger),
	)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddMessagingService(services.NewEventRouterService(bus, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Backfill.Enabled && enricher != nil {
		tree.AddDataService(services.NewDNABackfillService(enricher, services.BackfillServiceConfig{
			Interval:     cfg.Backfill.Interval,
			BatchSize:    cfg.Backfill.BatchSize,
			RunOnStartup: true,
		}, logger))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = err
		}
		cancel()
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	return serveErr
}
