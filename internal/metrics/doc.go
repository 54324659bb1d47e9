// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package metrics provides Prometheus metrics for the discovery service.

Collectors are registered with the default registry at package init through
promauto and exposed at /metrics by the API router:

	curl http://localhost:3857/metrics

# Available Metrics

HTTP:
  - discovery_api_requests_total{method,endpoint,status}
  - discovery_api_request_duration_seconds{method,endpoint}
  - discovery_api_active_requests

Recommendation:
  - discovery_recommend_requests_total{operation}
  - discovery_recommend_candidates{operation}
  - discovery_recommend_results{operation}
  - discovery_surface_requests_total{surface,strategy}

Store:
  - discovery_db_query_duration_seconds{operation}
  - discovery_db_query_errors_total{operation}

LLM and background work:
  - discovery_llm_requests_total{operation,outcome}
  - discovery_llm_request_duration_seconds{operation}
  - discovery_circuit_breaker_state{name}
  - discovery_affinity_cache_total{result}
  - discovery_events_total{topic,outcome}
  - discovery_dna_backfill_items_total{outcome}
*/
package metrics
