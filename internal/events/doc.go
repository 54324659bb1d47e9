// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package events carries domain events between the API and background workers.

Events travel over an in-process Watermill gochannel pub/sub and are consumed
through a Watermill Router with the Recoverer and Retry middleware:

	POST /api/v1/items
	      │ Publish(ItemCreated)
	      ▼
	gochannel topic "items.created"
	      │
	      ▼
	Router ── Recoverer ── Retry ── DNA handler ── enrich.Enricher

A handler error triggers the Retry middleware; once retries are exhausted
the message is nacked and dropped. The backfill service picks such items up
later, so nothing is lost permanently.

The Router runs under the supervisor tree through RouterService.
*/
package events
