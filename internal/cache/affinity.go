// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/metrics"
)

const (
	affinityKeyPrefix = "affinity:"

	// DefaultHotEntries bounds the in-process tier.
	DefaultHotEntries = 10000
)

// Scorer is the scoring function being cached. It matches
// ranking.AffinityScorer.
type Scorer interface {
	Affinity(ctx context.Context, text, bio string) (int, error)
}

// AffinityCache memoizes a Scorer in an LRU backed by Badger.
type AffinityCache struct {
	next   Scorer
	db     *badger.DB
	hot    *LRU[int]
	ttl    time.Duration
	logger zerolog.Logger
}

// NewAffinityCache wraps next. db may be nil, leaving only the in-process tier.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAffinityCache(next Scorer, db *badger.DB, ttl time.Duration, logger zerolog.Logger) *AffinityCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AffinityCache{
		next:   next,
		db:     db,
		hot:    NewLRU[int](DefaultHotEntries, ttl),
		ttl:    ttl,
		logger: logger.With().Str("component", "affinity_cache").Logger(),
	}
}

// Affinity returns the cached score for the pair, computing and storing it on
// a miss.
func (c *AffinityCache) Affinity(ctx context.Context, text, bio string) (int, error) {
	key := affinityKey(text, bio)

	if score, ok := c.hot.Get(key); ok {
		metrics.RecordAffinityCache(true)
		return score, nil
	}
	if score, ok := c.load(key); ok {
		c.hot.Add(key, score)
		metrics.RecordAffinityCache(true)
		return score, nil
	}
	metrics.RecordAffinityCache(false)

	score, err := c.next.Affinity(ctx, text, bio)
	if err != nil {
		return 0, err
	}

	c.hot.Add(key, score)
	c.store(key, score)
	return score, nil
}

func (c *AffinityCache) load(key string) (int, bool) {
	if c.db == nil {
		return 0, false
	}

	var score int
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 1 {
				return fmt.Errorf("corrupt affinity entry of %d bytes", len(val))
			}
			score = int(val[0])
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Msg("Affinity cache read failed")
		}
		return 0, false
	}
	return score, true
}

func (c *AffinityCache) store(key string, score int) {
	if c.db == nil || score < 0 || score > 255 {
		return
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), []byte{byte(score)}).WithTTL(c.ttl))
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Affinity cache write failed")
	}
}

// affinityKey hashes the pair so arbitrarily long bios make fixed-size keys.
func affinityKey(text, bio string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(bio))
	return affinityKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
