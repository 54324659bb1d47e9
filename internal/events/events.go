// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/discovery/internal/recommend"
)

// TopicItemCreated receives an ItemCreated for every stored item.
const TopicItemCreated = "items.created"

// Metadata keys set on every message.
const (
	MetadataEventType     = "event_type"
	MetadataCorrelationID = "correlation_id"
)

// ItemCreated announces a newly stored item.
type ItemCreated struct {
	ItemID     string         `json:"item_id"`
	Kind       recommend.Kind `json:"kind"`
	AuthorID   string         `json:"author_id"`
	HasDNA     bool           `json:"has_dna"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewItemCreated builds the event for item.
func NewItemCreated(item *recommend.Item) ItemCreated {
	return ItemCreated{
		ItemID:     item.ID,
		Kind:       item.Kind,
		AuthorID:   item.AuthorID,
		HasDNA:     item.HasDNA(),
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (e *ItemCreated) Validate() error {
	if e.ItemID == "" {
		return fmt.Errorf("item_id is required")
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("invalid kind %q", e.Kind)
	}
	return nil
}

// marshalMessage wraps an event payload in a Watermill message.
func marshalMessage(eventType, correlationID string, payload interface{}) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataEventType, eventType)
	if correlationID != "" {
		msg.Metadata.Set(MetadataCorrelationID, correlationID)
	}
	return msg, nil
}

// DecodeItemCreated parses and validates an ItemCreated message.
func DecodeItemCreated(msg *message.Message) (*ItemCreated, error) {
	var evt ItemCreated
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return nil, fmt.Errorf("unmarshal item created: %w", err)
	}
	if err := evt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid item created event: %w", err)
	}
	return &evt, nil
}
