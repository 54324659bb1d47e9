// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package ranking provides the non-personalized rankers used when a caller
// has no interest descriptor.
//
// Each surface has its own heuristic:
//
//   - Feed: social graph, recency decay and engagement
//   - Reels: views, like/view retention and an optional model-scored affinity
//     between the reel text and the caller's bio
//   - Marketplace: same-country bonus, seller trust, sales volume and ads
//
// All rankers return a permutation of their input sorted by descending
// score. Equal scores keep their input order.
package ranking
