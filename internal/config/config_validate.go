// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package config

import (
	"fmt"
	"strings"
)

// minJWTSecretLength is the shortest secret accepted in production.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSecurity,
		c.validateLogging,
		c.validateRecommend,
		c.validateLLM,
		c.validateBackfill,
		c.validateCache,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Server.IsProduction() && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("security.jwt_secret must be at least %d characters in production", minJWTSecretLength)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive, got %v", c.Security.TokenTTL)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.Threshold < 0 || r.Threshold > 1 {
		return fmt.Errorf("recommend.threshold must be within [0, 1], got %f", r.Threshold)
	}
	if r.DefaultLimit <= 0 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", r.DefaultLimit)
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= recommend.default_limit (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.PostPoolSize <= 0 || r.SurfacePoolSize <= 0 {
		return fmt.Errorf("recommend pool sizes must be positive")
	}
	if r.MarketplacePoolSize < 0 {
		return fmt.Errorf("recommend.marketplace_pool_size must not be negative, got %d", r.MarketplacePoolSize)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.api_key is required when llm is enabled")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required when llm is enabled")
	}
	if c.LLM.RequestsPerSecond <= 0 {
		return fmt.Errorf("llm.requests_per_second must be positive, got %f", c.LLM.RequestsPerSecond)
	}
	if c.LLM.AffinityLimit < 0 {
		return fmt.Errorf("llm.affinity_limit must not be negative, got %d", c.LLM.AffinityLimit)
	}
	return nil
}

func (c *Config) validateBackfill() error {
	if !c.Backfill.Enabled {
		return nil
	}
	if !c.LLM.Enabled {
		return fmt.Errorf("backfill.enabled requires llm.enabled")
	}
	if c.Backfill.Interval <= 0 {
		return fmt.Errorf("backfill.interval must be positive, got %v", c.Backfill.Interval)
	}
	if c.Backfill.BatchSize <= 0 {
		return fmt.Errorf("backfill.batch_size must be positive, got %d", c.Backfill.BatchSize)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.InMemory && strings.TrimSpace(c.Cache.Path) == "" {
		return fmt.Errorf("cache.path is required unless cache.in_memory is set")
	}
	if c.Cache.AffinityTTL <= 0 {
		return fmt.Errorf("cache.affinity_ttl must be positive, got %v", c.Cache.AffinityTTL)
	}
	return nil
}
