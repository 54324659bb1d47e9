// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/config"
)

type countingScorer struct {
	mu    sync.Mutex
	calls int
	score int
	err   error
}

func (s *countingScorer) Affinity(_ context.Context, _, _ string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.score, s.err
}

func (s *countingScorer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := OpenBadger(&config.CacheConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAffinityCache_HitAfterMiss(t *testing.T) {
	scorer := &countingScorer{score: 8}
	c := NewAffinityCache(scorer, openTestBadger(t), time.Hour, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Affinity(ctx, "penalty saves", "goalkeeper coach")
		if err != nil || got != 8 {
			t.Fatalf("Affinity() = %d, %v; want 8", got, err)
		}
	}
	if scorer.count() != 1 {
		t.Errorf("scorer called %d times, want 1", scorer.count())
	}

	if _, err := c.Affinity(ctx, "penalty saves", "baker"); err != nil {
		t.Fatal(err)
	}
	if scorer.count() != 2 {
		t.Errorf("different bio should miss, scorer called %d times", scorer.count())
	}
}

func TestAffinityCache_PersistsAcrossInstances(t *testing.T) {
	db := openTestBadger(t)
	ctx := context.Background()

	first := &countingScorer{score: 6}
	if _, err := NewAffinityCache(first, db, time.Hour, zerolog.Nop()).Affinity(ctx, "reel", "bio"); err != nil {
		t.Fatal(err)
	}

	second := &countingScorer{score: 1}
	got, err := NewAffinityCache(second, db, time.Hour, zerolog.Nop()).Affinity(ctx, "reel", "bio")
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("Affinity() = %d, want persisted 6", got)
	}
	if second.count() != 0 {
		t.Error("second instance should be served from badger")
	}
}

func TestAffinityCache_ErrorsNotCached(t *testing.T) {
	scorer := &countingScorer{err: errors.New("breaker open")}
	c := NewAffinityCache(scorer, openTestBadger(t), time.Hour, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Affinity(ctx, "reel", "bio"); err == nil {
			t.Fatal("expected scorer error")
		}
	}
	if scorer.count() != 2 {
		t.Errorf("scorer called %d times, want 2", scorer.count())
	}
}

func TestAffinityCache_WithoutBadger(t *testing.T) {
	scorer := &countingScorer{score: 3}
	c := NewAffinityCache(scorer, nil, 0, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if got, err := c.Affinity(context.Background(), "reel", "bio"); err != nil || got != 3 {
			t.Fatalf("Affinity() = %d, %v", got, err)
		}
	}
	if scorer.count() != 1 {
		t.Errorf("scorer called %d times, want 1", scorer.count())
	}
}

func TestAffinityKey(t *testing.T) {
	if affinityKey("ab", "c") == affinityKey("a", "bc") {
		t.Error("keys must not collide when text and bio boundaries shift")
	}
	if affinityKey("x", "y") != affinityKey("x", "y") {
		t.Error("keys must be deterministic")
	}
}
