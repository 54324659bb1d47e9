// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package cache memoizes reel affinity scores.
//
// Scoring a reel against a bio costs a language model round trip, and the same
// reel/bio pair comes up on every reels refresh. AffinityCache sits in front
// of any ranking.AffinityScorer with two tiers:
//
//   - an in-process LRU with TTL for the hot set
//   - BadgerDB for persistence across restarts, using Badger's native entry TTL
//
// Only successful scores are cached; scorer errors pass through so the ranker
// can fall back to a neutral affinity and try again on the next request.
package cache
