// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package recommend implements content-DNA based recommendations.
//
// # Model
//
// Every recommendable Item (post, reel or marketplace listing) may carry a
// dna.ContentDNA descriptor. Given a reference descriptor, the engine scores
// each candidate with dna.Similarity, keeps those at or above the configured
// threshold and orders them by descending score. Candidates without a
// descriptor score 0 and are only kept when the threshold is 0.
//
// Ordering is stable: candidates with equal scores keep their input order, so
// callers that pass a recency-ordered pool get recency as the tie-breaker.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, store, logger)
//
//	// Rank a caller-supplied pool
//	items := engine.Recommend(ref, candidates)
//
//	// Items similar to a stored item
//	items, err := engine.SimilarItems(ctx, recommend.SimilarRequest{
//	    RefID:   "p-42",
//	    RefKind: recommend.KindPost,
//	    Limit:   10,
//	})
//
// # Thread Safety
//
// Engine holds no mutable state besides atomic counters and is safe for
// concurrent use.
package recommend
