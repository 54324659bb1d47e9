// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package auth resolves the caller of an HTTP request.

Callers authenticate with an HS256 bearer token whose subject is the user
id. Authentication is optional: requests without an Authorization header
proceed anonymously, which is how discovery surfaces fall back to their
non-personalized rankers. A header that is present but invalid is rejected
with 401 rather than silently downgraded.

	jwtManager, _ := auth.NewJWTManager(&cfg.Security)
	mw := auth.NewMiddleware(jwtManager, db, logger)
	r.Use(mw.Identify)
	r.With(mw.RequireUser).Post("/api/v1/items", h.CreateItem)

Downstream code reads the caller through Identity, which satisfies the
identity interfaces of the interest and discovery packages.
*/
package auth
