// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package logging provides centralized zerolog-based structured logging.
//
// A single global logger is configured once from main with Init and then
// shared by every package. JSON output is the default; console output is
// meant for local development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("surface", "feed").Msg("Surface served")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Affinity lookup failed")
//
// # Request Context
//
// The HTTP layer stores a request ID in the request context. Ctx adds it
// (and a correlation ID, when present) to every event:
//
//	{"level":"info","request_id":"5c1e...","message":"Similar items served"}
//
// # Adapters
//
// Two third-party libraries expect their own logger types:
//
//   - NewSlogLogger wraps the global logger as an *slog.Logger for the
//     sutureslog supervisor event hook.
//   - NewWatermillLogger wraps a zerolog.Logger as a watermill.LoggerAdapter
//     for the in-process event router.
//
// # Sensitive Data
//
// Never log raw tokens, API keys or email addresses. Use SanitizeToken,
// SanitizeEmail and SanitizeUserID, or the AuthLogger helpers which apply
// them automatically.
package logging
