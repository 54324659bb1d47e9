// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package api provides the HTTP surface of the discovery service.

Routes (all JSON, wrapped in models.APIResponse):

	GET  /api/v1/health/live                  liveness probe
	GET  /api/v1/health/ready                 readiness probe (database ping)
	GET  /api/v1/recommendations?refId=&refType=&limit=
	GET  /api/v1/discovery/{surface}?limit=   feed, reels or marketplace
	GET  /api/v1/stats                        recommendation engine counters
	POST /api/v1/items                        authenticated item ingest
	GET  /metrics                             Prometheus exposition

Handlers depend on small interfaces (SimilarFinder, SurfaceServer,
ItemStore, EventPublisher) so they can be tested with hand-written fakes;
cmd/server wires the DuckDB store, the recommendation engine and the
discovery hub behind them.

Error mapping:

	recommend.ErrInvalidInput      400 INVALID_REQUEST
	validation failure             400 VALIDATION_ERROR
	recommend.ErrNotFound          404 NOT_FOUND
	recommend.ErrNoDNA             404 NO_CONTENT_DNA
	anything else                  500 INTERNAL_ERROR (logged)
*/
package api
