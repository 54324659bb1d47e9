// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package recommend

import (
	"errors"
	"fmt"
)

// DefaultThreshold is the minimum similarity a candidate needs to be recommended.
const DefaultThreshold = 0.2

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Threshold is the inclusive minimum similarity for a candidate to be kept.
	// Must be within [0, 1]. Default: 0.2.
	Threshold float64 `json:"threshold"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of similar items returned when the caller gives no limit.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK caps the caller-supplied limit.
	// Default: 100.
	MaxK int `json:"max_k"`

	// PostPoolSize is how many of the newest posts and reels are considered
	// as candidates for a similar-items lookup.
	// Default: 100.
	PostPoolSize int `json:"post_pool_size"`

	// MarketplacePoolSize bounds the marketplace listings considered as candidates.
	// Default: 1000.
	MarketplacePoolSize int `json:"marketplace_pool_size"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Threshold: DefaultThreshold,
		Limits: LimitsConfig{
			DefaultK:            10,
			MaxK:                100,
			PostPoolSize:        100,
			MarketplacePoolSize: 1000,
		},
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0, 1], got %f", c.Threshold)
	}
	if c.Limits.DefaultK <= 0 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k (%d) must be >= limits.default_k (%d)", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.PostPoolSize <= 0 {
		return fmt.Errorf("limits.post_pool_size must be positive, got %d", c.Limits.PostPoolSize)
	}
	if c.Limits.MarketplacePoolSize < 0 {
		return fmt.Errorf("limits.marketplace_pool_size must not be negative, got %d", c.Limits.MarketplacePoolSize)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
