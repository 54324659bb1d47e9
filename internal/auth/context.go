// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package auth

import (
	"context"

	"github.com/tomtom215/discovery/internal/recommend"
)

type contextKey string

const userContextKey contextKey = "user"

// ContextWithUser attaches the authenticated user to ctx.
func ContextWithUser(ctx context.Context, user *recommend.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *recommend.User {
	if u, ok := ctx.Value(userContextKey).(*recommend.User); ok {
		return u
	}
	return nil
}

// Identity reads the caller from the request context populated by
// Middleware.Identify.
type Identity struct{}

// CurrentUser returns the authenticated user, or nil for anonymous callers.
func (Identity) CurrentUser(ctx context.Context) (*recommend.User, error) {
	return UserFromContext(ctx), nil
}
