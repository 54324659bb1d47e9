// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// EventRouter runs until ctx is canceled. Satisfied by *events.Bus.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventRouterService supervises the in-process event router.
//
// A Watermill router runs once. When it stops without ctx being canceled the
// service asks suture not to restart it; items whose events were lost are
// picked up by the DNA backfill service.
type EventRouterService struct {
	router EventRouter
	logger zerolog.Logger
	name   string
}

// NewEventRouterService creates the router service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventRouterService(router EventRouter, logger zerolog.Logger) *EventRouterService {
	return &EventRouterService{
		router: router,
		logger: logger.With().Str("service", "event-router").Logger(),
		name:   "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("event router starting")

	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		s.logger.Info().Msg("event router shutting down")
		return ctx.Err()
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("event router stopped")
		return fmt.Errorf("event router: %w: %w", suture.ErrDoNotRestart, err)
	}

	s.logger.Warn().Msg("event router closed outside shutdown")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for supervisor logs.
func (s *EventRouterService) String() string {
	return s.name
}
