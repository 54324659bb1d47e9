// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package config

import "time"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	LLM       LLMConfig       `koanf:"llm"`
	Backfill  BackfillConfig  `koanf:"backfill"`
	Cache     CacheConfig     `koanf:"cache"`
	Events    EventsConfig    `koanf:"events"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development" or "production"
}

// IsProduction reports whether production checks apply.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`        // Number of DuckDB threads (0 = use NumCPU)
	SeedDemoData bool   `koanf:"seed_demo_data"` // Insert a small demo catalog on an empty database
}

// SecurityConfig holds authentication and HTTP hardening settings
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	// Threshold is the inclusive minimum similarity, within [0, 1].
	Threshold float64 `koanf:"threshold"`

	DefaultLimit        int `koanf:"default_limit"`
	MaxLimit            int `koanf:"max_limit"`
	PostPoolSize        int `koanf:"post_pool_size"`
	MarketplacePoolSize int `koanf:"marketplace_pool_size"`

	// SurfacePoolSize bounds the items loaded for a discovery surface request.
	SurfacePoolSize int `koanf:"surface_pool_size"`

	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// LLMConfig holds settings for the OpenAI-compatible model endpoint used for
// DNA extraction and reel affinity.
type LLMConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"` // Empty uses the public OpenAI endpoint
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`

	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	AffinityLimit       int `koanf:"affinity_limit"`       // Leading reels scored per request
	AffinityConcurrency int `koanf:"affinity_concurrency"` // Parallel affinity lookups

	BreakerFailures uint32        `koanf:"breaker_failures"` // Consecutive failures before opening
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`  // Open state duration
}

// BackfillConfig holds settings for the periodic DNA backfill loop
type BackfillConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Interval  time.Duration `koanf:"interval"`
	BatchSize int           `koanf:"batch_size"`
}

// CacheConfig holds settings for the Badger affinity cache
type CacheConfig struct {
	Path        string        `koanf:"path"`
	InMemory    bool          `koanf:"in_memory"`
	AffinityTTL time.Duration `koanf:"affinity_ttl"`
}

// EventsConfig holds settings for the in-process event router
type EventsConfig struct {
	RetryCount    int           `koanf:"retry_count"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
	BufferSize    int64         `koanf:"buffer_size"`
}
