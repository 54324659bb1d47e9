// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package api

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/discovery/internal/config"
	"github.com/tomtom215/discovery/internal/discovery"
	"github.com/tomtom215/discovery/internal/events"
	"github.com/tomtom215/discovery/internal/recommend"
)

// SimilarFinder answers similar-items queries.
type SimilarFinder interface {
	SimilarItems(ctx context.Context, req recommend.SimilarRequest) ([]recommend.Item, error)
	Stats() recommend.Stats
}

// SurfaceServer orders a discovery surface for the caller.
type SurfaceServer interface {
	ServeWithStrategy(ctx context.Context, surface discovery.Surface, items []recommend.Item) ([]recommend.Item, discovery.Strategy, error)
}

// ItemStore loads surface pools and stores new items.
type ItemStore interface {
	ListItems(ctx context.Context, opts recommend.ListOptions) ([]recommend.Item, error)
	InsertItem(ctx context.Context, item *recommend.Item) error
}

// EventPublisher announces newly stored items.
type EventPublisher interface {
	PublishItemCreated(ctx context.Context, evt events.ItemCreated) error
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter exposes the LLM circuit breaker state.
type BreakerReporter interface {
	BreakerState() gobreaker.State
}

// Dependencies are the collaborators of Handler. Events and LLM are optional.
type Dependencies struct {
	Engine SimilarFinder
	Hub    SurfaceServer
	Store  ItemStore
	DB     Pinger
	Events EventPublisher
	LLM    BreakerReporter
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness, readiness and engine stats
//   - handlers_recommend.go: similar-items lookup
//   - handlers_discovery.go: per-surface discovery
//   - handlers_items.go: item ingest
type Handler struct {
	engine    SimilarFinder
	hub       SurfaceServer
	store     ItemStore
	db        Pinger
	events    EventPublisher
	llm       BreakerReporter
	config    config.RecommendConfig
	startTime time.Time
}

// NewHandler creates the API handler. Engine, Hub, Store and DB are required.
func NewHandler(cfg *config.RecommendConfig, deps Dependencies) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("api: recommend config is required")
	}
	if deps.Engine == nil || deps.Hub == nil || deps.Store == nil || deps.DB == nil {
		return nil, errors.New("api: engine, hub, store and database are required")
	}
	return &Handler{
		engine:    deps.Engine,
		hub:       deps.Hub,
		store:     deps.Store,
		db:        deps.DB,
		events:    deps.Events,
		llm:       deps.LLM,
		config:    *cfg,
		startTime: time.Now(),
	}, nil
}

// requestContext bounds a request by the configured recommendation timeout.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}
