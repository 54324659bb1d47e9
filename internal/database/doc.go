// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package database provides the DuckDB-backed content store.

The store holds three tables:

  - users: accounts with contact details, bio and seller trust score
  - follows: directed follower -> followee edges
  - items: posts, reels and marketplace listings with their content DNA

Content DNA is stored as a JSON document in a nullable TEXT column. Items
without DNA are kept and simply score zero during recommendation; the
backfill service fills them in when the LLM extractor is enabled.

# Ordering

Every listing is returned newest first (created_at DESC NULLS LAST) with the
item id as tie-break. Recommendation ranking is stable, so this order is what
decides between equally similar candidates.

# Interfaces

DB satisfies the collaborator interfaces of the recommend, interest,
ranking and auth packages:

	recommend.ContentStore   ItemByID, ListItems
	interest.AuthoredContent ListItems
	ranking.FollowGraph      Following
	ranking.SellerDirectory  TrustScores

# Testing

Tests use an in-memory database (":memory:"). Database creation is
serialized through a semaphore because concurrent DuckDB CGO setup can hang
under CI resource pressure.
*/
package database
