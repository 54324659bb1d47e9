// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/config"
	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/metrics"
)

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("event bus is closed")

// Bus owns the in-process pub/sub and the router consuming it.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewBus creates the pub/sub and a router with panic recovery and retries.
// Handlers must be added before Run.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(cfg *config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	if cfg == nil {
		return nil, errors.New("events config is nil")
	}
	wmLogger := logging.NewWatermillLogger(logger)

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Order matters: Recoverer wraps Retry so a panic is retried like an error.
	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryCount,
		InitialInterval: cfg.RetryInterval,
		MaxInterval:     cfg.RetryInterval * 10,
		Multiplier:      2.0,
		Logger:          wmLogger,
	}
	router.AddMiddleware(retry.Middleware)

	return &Bus{
		pubsub: pubsub,
		router: router,
		logger: wmLogger,
	}, nil
}

// Publisher returns a publisher for the bus.
func (b *Bus) Publisher() *Publisher {
	return &Publisher{pub: b.pubsub}
}

// AddConsumer registers handler on topic.
func (b *Bus) AddConsumer(name, topic string, handler message.NoPublishHandlerFunc) {
	b.router.AddConsumerHandler(name, topic, b.pubsub, func(msg *message.Message) error {
		if err := handler(msg); err != nil {
			metrics.RecordEvent(topic, "failed")
			return err
		}
		metrics.RecordEvent(topic, "handled")
		return nil
	})
}

// Run starts the router and blocks until ctx is canceled or the router stops.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close stops the router and the pub/sub.
func (b *Bus) Close() error {
	routerErr := b.router.Close()
	pubsubErr := b.pubsub.Close()
	return errors.Join(routerErr, pubsubErr)
}

// Publisher publishes domain events.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher wraps any Watermill publisher.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// PublishItemCreated announces a stored item.
func (p *Publisher) PublishItemCreated(ctx context.Context, evt ItemCreated) error {
	msg, err := marshalMessage(TopicItemCreated, logging.CorrelationIDFromContext(ctx), evt)
	if err != nil {
		return err
	}
	if err := p.pub.Publish(TopicItemCreated, msg); err != nil {
		metrics.RecordEvent(TopicItemCreated, "failed")
		return fmt.Errorf("publish %s: %w", TopicItemCreated, err)
	}
	metrics.RecordEvent(TopicItemCreated, "published")
	return nil
}
