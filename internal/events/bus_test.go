// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/config"
	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/enrich"
	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/recommend"
)

type enrichCall struct {
	id            string
	kind          recommend.Kind
	correlationID string
}

// mockEnricher fails the first failures calls, then succeeds.
type mockEnricher struct {
	mu       sync.Mutex
	failures int
	calls    []enrichCall
	done     chan enrichCall
}

func newMockEnricher(failures int) *mockEnricher {
	return &mockEnricher{failures: failures, done: make(chan enrichCall, 16)}
}

func (m *mockEnricher) EnrichItem(ctx context.Context, id string, kind recommend.Kind) (enrich.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := enrichCall{id: id, kind: kind, correlationID: logging.CorrelationIDFromContext(ctx)}
	m.calls = append(m.calls, call)
	if len(m.calls) <= m.failures {
		return enrich.OutcomeFailed, errors.New("model unavailable")
	}
	m.done <- call
	return enrich.OutcomeUpdated, nil
}

func (m *mockEnricher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func testEventsConfig() *config.EventsConfig {
	return &config.EventsConfig{
		RetryCount:    3,
		RetryInterval: time.Millisecond,
		CloseTimeout:  time.Second,
		BufferSize:    16,
	}
}

// startBus runs the bus until the test ends.
func startBus(t *testing.T, enricher ItemEnricher) *Bus {
	t.Helper()

	bus, err := NewBus(testEventsConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	Register(bus, enricher, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- bus.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
		<-errCh
	})

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	return bus
}

func waitCall(t *testing.T, m *mockEnricher) enrichCall {
	t.Helper()
	select {
	case call := <-m.done:
		return call
	case <-time.After(5 * time.Second):
		t.Fatal("enricher was not called")
		return enrichCall{}
	}
}

func TestBus_ItemCreatedTriggersEnrichment(t *testing.T) {
	enricher := newMockEnricher(0)
	bus := startBus(t, enricher)

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	item := &recommend.Item{ID: "p-new", Kind: recommend.KindPost, AuthorID: "u-ana"}
	if err := bus.Publisher().PublishItemCreated(ctx, NewItemCreated(item)); err != nil {
		t.Fatalf("PublishItemCreated() error = %v", err)
	}

	call := waitCall(t, enricher)
	if call.id != "p-new" || call.kind != recommend.KindPost {
		t.Errorf("enriched %s/%s, want p-new/post", call.id, call.kind)
	}
	if call.correlationID != "corr-1" {
		t.Errorf("correlation id = %q, want corr-1", call.correlationID)
	}
}

func TestBus_RetriesFailedEnrichment(t *testing.T) {
	enricher := newMockEnricher(2)
	bus := startBus(t, enricher)

	item := &recommend.Item{ID: "r-new", Kind: recommend.KindReel, AuthorID: "u-bruno"}
	if err := bus.Publisher().PublishItemCreated(context.Background(), NewItemCreated(item)); err != nil {
		t.Fatal(err)
	}

	waitCall(t, enricher)
	if got := enricher.callCount(); got != 3 {
		t.Errorf("enricher called %d times, want 3", got)
	}
}

func TestDNAHandler(t *testing.T) {
	withDNA := &recommend.Item{ID: "m-1", Kind: recommend.KindMarketplace, DNA: dna.New("Sports", "", "")}

	tests := []struct {
		name      string
		msg       func(t *testing.T) *message.Message
		wantCalls int
	}{
		{
			name: "malformed payload is acknowledged",
			msg: func(t *testing.T) *message.Message {
				return message.NewMessage(watermill.NewUUID(), []byte("{not json"))
			},
		},
		{
			name: "invalid kind is acknowledged",
			msg: func(t *testing.T) *message.Message {
				m, err := marshalMessage(TopicItemCreated, "", ItemCreated{ItemID: "x", Kind: "story"})
				if err != nil {
					t.Fatal(err)
				}
				return m
			},
		},
		{
			name: "item with dna is skipped",
			msg: func(t *testing.T) *message.Message {
				m, err := marshalMessage(TopicItemCreated, "", NewItemCreated(withDNA))
				if err != nil {
					t.Fatal(err)
				}
				return m
			},
		},
		{
			name: "item without dna is enriched",
			msg: func(t *testing.T) *message.Message {
				m, err := marshalMessage(TopicItemCreated, "", ItemCreated{ItemID: "p-1", Kind: recommend.KindPost})
				if err != nil {
					t.Fatal(err)
				}
				return m
			},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enricher := newMockEnricher(0)
			handler := DNAHandler(enricher, zerolog.Nop())
			if err := handler(tt.msg(t)); err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if enricher.callCount() != tt.wantCalls {
				t.Errorf("enricher called %d times, want %d", enricher.callCount(), tt.wantCalls)
			}
		})
	}
}

func TestDNAHandler_PropagatesFailure(t *testing.T) {
	handler := DNAHandler(newMockEnricher(1), zerolog.Nop())
	msg, err := marshalMessage(TopicItemCreated, "", ItemCreated{ItemID: "p-1", Kind: recommend.KindPost})
	if err != nil {
		t.Fatal(err)
	}
	if err := handler(msg); err == nil {
		t.Error("handler should return the enrichment error so the router retries")
	}
}

func TestMarshalMessage_Metadata(t *testing.T) {
	msg, err := marshalMessage(TopicItemCreated, "corr-9", ItemCreated{ItemID: "p-1", Kind: recommend.KindPost})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Metadata.Get(MetadataEventType) != TopicItemCreated {
		t.Errorf("event type = %q", msg.Metadata.Get(MetadataEventType))
	}
	if msg.Metadata.Get(MetadataCorrelationID) != "corr-9" {
		t.Errorf("correlation id = %q", msg.Metadata.Get(MetadataCorrelationID))
	}

	evt, err := DecodeItemCreated(msg)
	if err != nil || evt.ItemID != "p-1" {
		t.Errorf("DecodeItemCreated() = %+v, %v", evt, err)
	}
}
