// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/models"
	"github.com/tomtom215/discovery/internal/recommend"
)

// UserLookup loads the user named by a token subject. Unknown ids must yield
// an error wrapping recommend.ErrUserNotFound.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*recommend.User, error)
}

// Middleware authenticates bearer tokens.
type Middleware struct {
	jwt     *JWTManager
	users   UserLookup
	authLog *logging.AuthLogger
}

// NewMiddleware creates the authentication middleware.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMiddleware(jwtManager *JWTManager, users UserLookup, logger zerolog.Logger) *Middleware {
	return &Middleware{
		jwt:     jwtManager,
		users:   users,
		authLog: logging.NewAuthLogger(logger),
	}
}

// Identify attaches the bearer token's user to the request context.
// Requests without an Authorization header continue anonymously; a malformed
// header, an invalid token or an unknown subject is answered with 401.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		token, ok := bearerToken(header)
		if !ok {
			m.authLog.LogTokenRejected("", ip, "malformed authorization header")
			unauthorized(w, "invalid authorization header")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			m.authLog.LogTokenRejected(token, ip, err.Error())
			unauthorized(w, "invalid token")
			return
		}

		user, err := m.users.UserByID(r.Context(), claims.UserID())
		switch {
		case errors.Is(err, recommend.ErrUserNotFound):
			m.authLog.LogUnknownUser(claims.UserID(), ip)
			unauthorized(w, "unknown user")
			return
		case err != nil:
			logging.Ctx(r.Context()).Error().Err(err).Msg("User lookup failed")
			writeError(w, http.StatusInternalServerError, models.CodeInternal, "failed to resolve user")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireUser rejects anonymous requests with 401. It must run after Identify.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// clientIP returns the remote host. chi's RealIP middleware has already
// rewritten RemoteAddr from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="discovery"`)
	writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := &models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to write auth error response")
	}
}
