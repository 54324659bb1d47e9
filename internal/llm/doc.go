// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package llm talks to an OpenAI-compatible chat completion endpoint.

Two tasks use the model:

  - ExtractDNA classifies item text into a dna.ContentDNA descriptor. It runs
    when an item is created without a descriptor and from the backfill loop.
  - Affinity rates how well a reel matches a user's bio on a 1 to 10 scale for
    the reels ranker.

Every call passes through a token bucket (golang.org/x/time/rate) and a
circuit breaker (sony/gobreaker). While the breaker is open calls fail fast
with gobreaker.ErrOpenState; callers treat any error as "no answer" and fall
back (the reels ranker uses a neutral affinity, the backfill loop retries on
its next pass).

BaseURL may point at any server that speaks the OpenAI chat API, which is how
tests substitute an httptest server.
*/
package llm
