// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AuthLogger logs authentication outcomes with sensitive values masked.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger creates an AuthLogger over logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuthLogger(logger zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogTokenIssued records a newly signed token.
func (l *AuthLogger) LogTokenIssued(userID, email string) {
	l.logger.Info().
		Str("event", "token_issued").
		Str("user_id", SanitizeUserID(userID)).
		Str("email", SanitizeEmail(email)).
		Msg("")
}

// LogTokenRejected records a bearer token that failed validation.
func (l *AuthLogger) LogTokenRejected(token, ip, reason string) {
	l.logger.Warn().
		Str("event", "token_rejected").
		Str("token", SanitizeToken(token)).
		Str("ip", ip).
		Str("reason", truncateString(reason, 200)).
		Msg("")
}

// LogUnknownUser records a valid token whose subject no longer exists.
func (l *AuthLogger) LogUnknownUser(userID, ip string) {
	l.logger.Warn().
		Str("event", "unknown_subject").
		Str("user_id", SanitizeUserID(userID)).
		Str("ip", ip).
		Msg("")
}

// SanitizeToken masks a token, showing only its first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID masks a user ID.
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeEmail keeps the first 2 characters of the local part and the domain.
//
//	"john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
