// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/enrich"
	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/recommend"
)

// HandlerNameDNA names the DNA extraction consumer.
const HandlerNameDNA = "dna-extraction"

// ItemEnricher attaches DNA to a stored item.
type ItemEnricher interface {
	EnrichItem(ctx context.Context, id string, kind recommend.Kind) (enrich.Outcome, error)
}

// DNAHandler returns a consumer that enriches newly created items lacking DNA.
// Malformed messages are logged and acknowledged; retrying cannot fix them.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func DNAHandler(enricher ItemEnricher, logger zerolog.Logger) message.NoPublishHandlerFunc {
	logger = logger.With().Str("handler", HandlerNameDNA).Logger()

	return func(msg *message.Message) error {
		evt, err := DecodeItemCreated(msg)
		if err != nil {
			logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed event")
			return nil
		}
		if evt.HasDNA {
			return nil
		}

		ctx := msg.Context()
		if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}

		outcome, err := enricher.EnrichItem(ctx, evt.ItemID, evt.Kind)
		if err != nil {
			return err
		}
		logger.Debug().
			Str("item_id", evt.ItemID).
			Str("outcome", string(outcome)).
			Msg("item created event handled")
		return nil
	}
}

// Register wires every consumer onto the bus.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Register(bus *Bus, enricher ItemEnricher, logger zerolog.Logger) {
	bus.AddConsumer(HandlerNameDNA, TopicItemCreated, DNAHandler(enricher, logger))
}
