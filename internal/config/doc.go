// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package config loads and validates service configuration.

Configuration is layered with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
 3. Environment variables (highest priority)

Environment variables use flat legacy names mapped explicitly onto koanf
paths, for example:

	HTTP_PORT            -> server.port
	DUCKDB_PATH          -> database.path
	JWT_SECRET           -> security.jwt_secret
	RECOMMEND_THRESHOLD  -> recommend.threshold
	LLM_API_KEY          -> llm.api_key
	BACKFILL_ENABLED     -> backfill.enabled

Variables with no mapping are ignored. Comma-separated values are split for
slice fields such as security.cors_origins.

Example config.yaml:

	server:
	  port: 3857
	database:
	  path: /data/discovery.duckdb
	  seed_demo_data: true
	recommend:
	  threshold: 0.2
	  default_limit: 10
	llm:
	  enabled: true
	  model: gpt-4o-mini
*/
package config
