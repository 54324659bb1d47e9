// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/enrich"
)

type mockBackfiller struct {
	mu         sync.Mutex
	calls      int
	batchSizes []int
	err        error
	called     chan struct{}
}

func newMockBackfiller() *mockBackfiller {
	return &mockBackfiller{called: make(chan struct{}, 16)}
}

func (m *mockBackfiller) Backfill(_ context.Context, batchSize int) (enrich.BackfillResult, error) {
	m.mu.Lock()
	m.calls++
	m.batchSizes = append(m.batchSizes, batchSize)
	err := m.err
	m.mu.Unlock()

	select {
	case m.called <- struct{}{}:
	default:
	}
	if err != nil {
		return enrich.BackfillResult{}, err
	}
	return enrich.BackfillResult{Scanned: 2, Updated: 1, Failed: 1}, nil
}

func (m *mockBackfiller) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func waitForCall(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("backfill was not called")
	}
}

func TestDNABackfillService_RunOnStartup(t *testing.T) {
	b := newMockBackfiller()
	svc := NewDNABackfillService(b, BackfillServiceConfig{
		Interval:     time.Hour,
		BatchSize:    7,
		RunOnStartup: true,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitForCall(t, b.called)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if b.Calls() != 1 {
		t.Errorf("calls = %d, want 1", b.Calls())
	}
	if b.batchSizes[0] != 7 {
		t.Errorf("batch size = %d, want 7", b.batchSizes[0])
	}
}

func TestDNABackfillService_KeepsRunningAfterFailure(t *testing.T) {
	b := newMockBackfiller()
	b.err = errors.New("llm unavailable")
	svc := NewDNABackfillService(b, BackfillServiceConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitForCall(t, b.called)
	waitForCall(t, b.called)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if b.Calls() < 2 {
		t.Errorf("calls = %d, want at least 2", b.Calls())
	}
}

func TestDNABackfillService_Defaults(t *testing.T) {
	svc := NewDNABackfillService(newMockBackfiller(), BackfillServiceConfig{}, zerolog.Nop())
	if svc.config.Interval != 5*time.Minute || svc.config.BatchSize != 50 || svc.config.PassTimeout != 5*time.Minute {
		t.Errorf("config = %+v, want defaults", svc.config)
	}
	if svc.String() != "dna-backfill" {
		t.Errorf("String() = %q", svc.String())
	}
}
