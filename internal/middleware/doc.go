// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package middleware provides HTTP middleware shared by every route.

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
    with request and correlation ids.
  - PrometheusMetrics: request counts, latencies and in-flight gauge. The
    endpoint label is the chi route pattern so path parameters do not create
    new series.
  - AccessLog: one structured zerolog line per request.

Authentication lives in internal/auth; CORS and rate limiting come from
go-chi/cors and go-chi/httprate and are assembled in internal/api.

The stack in internal/api is, outermost first:

	RequestID → RealIP → AccessLog → Recoverer → CORS → rate limit →
	PrometheusMetrics → auth.Identify → handler
*/
package middleware
