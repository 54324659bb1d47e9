// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package services provides suture service wrappers for the long-running
// parts of the discovery service: the HTTP server, the event router and the
// DNA backfill loop.
//
// Each wrapper implements suture.Service (Serve(ctx) error) and fmt.Stringer
// so supervisor logs name the service.
package services
