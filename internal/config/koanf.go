// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/discovery/config.yaml",
	"/etc/discovery/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:         "/data/discovery.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			SeedDemoData: false,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			Threshold:           0.2,
			DefaultLimit:        10,
			MaxLimit:            100,
			PostPoolSize:        100,
			MarketplacePoolSize: 1000,
			SurfacePoolSize:     200,
			RequestTimeout:      10 * time.Second,
		},
		LLM: LLMConfig{
			Enabled:             false, // Opt-in; surfaces fall back to neutral affinity without it
			BaseURL:             "",
			APIKey:              "",
			Model:               "gpt-4o-mini",
			Timeout:             15 * time.Second,
			RequestsPerSecond:   5,
			Burst:               10,
			AffinityLimit:       10,
			AffinityConcurrency: 4,
			BreakerFailures:     5,
			BreakerTimeout:      30 * time.Second,
		},
		Backfill: BackfillConfig{
			Enabled:   false,
			Interval:  5 * time.Minute,
			BatchSize: 50,
		},
		Cache: CacheConfig{
			Path:        "/data/cache",
			InMemory:    false,
			AffinityTTL: 24 * time.Hour,
		},
		Events: EventsConfig{
			RetryCount:    3,
			RetryInterval: 100 * time.Millisecond,
			CloseTimeout:  10 * time.Second,
			BufferSize:    256,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	// Security mappings
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation mappings
	"recommend_threshold":             "recommend.threshold",
	"recommend_default_limit":         "recommend.default_limit",
	"recommend_max_limit":             "recommend.max_limit",
	"recommend_post_pool_size":        "recommend.post_pool_size",
	"recommend_marketplace_pool_size": "recommend.marketplace_pool_size",
	"recommend_surface_pool_size":     "recommend.surface_pool_size",
	"recommend_request_timeout":       "recommend.request_timeout",

	// LLM mappings
	"llm_enabled":              "llm.enabled",
	"llm_base_url":             "llm.base_url",
	"llm_api_key":              "llm.api_key",
	"openai_api_key":           "llm.api_key",
	"llm_model":                "llm.model",
	"llm_timeout":              "llm.timeout",
	"llm_requests_per_second":  "llm.requests_per_second",
	"llm_burst":                "llm.burst",
	"llm_affinity_limit":       "llm.affinity_limit",
	"llm_affinity_concurrency": "llm.affinity_concurrency",
	"llm_breaker_failures":     "llm.breaker_failures",
	"llm_breaker_timeout":      "llm.breaker_timeout",

	// Backfill mappings
	"backfill_enabled":    "backfill.enabled",
	"backfill_interval":   "backfill.interval",
	"backfill_batch_size": "backfill.batch_size",

	// Cache mappings
	"cache_path":         "cache.path",
	"cache_in_memory":    "cache.in_memory",
	"cache_affinity_ttl": "cache.affinity_ttl",

	// Event router mappings
	"events_retry_count":    "events.retry_count",
	"events_retry_interval": "events.retry_interval",
	"events_close_timeout":  "events.close_timeout",
	"events_buffer_size":    "events.buffer_size",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are dropped by the env provider.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - OPENAI_API_KEY -> llm.api_key
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
