// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/discovery/internal/auth"
	"github.com/tomtom215/discovery/internal/middleware"
	"github.com/tomtom215/discovery/internal/models"
)

// Router assembles the chi route tree.
type Router struct {
	handler *Handler
	chiMw   *ChiMiddleware
	authMw  *auth.Middleware
}

// NewRouter creates a router. chiMw may be nil for defaults.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, authMw *auth.Middleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler: handler,
		chiMw:   chiMw,
		authMw:  authMw,
	}
}

// SetupChi builds the http.Handler serving every route.
//
// Probes and /metrics sit outside rate limiting and authentication so
// orchestrators and scrapers are never throttled or challenged.
func (rt *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chiMw.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, models.CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, models.CodeMethod, "Method not allowed", nil)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/live", rt.handler.HealthLive)
		r.Get("/health/ready", rt.handler.HealthReady)

		r.Group(func(r chi.Router) {
			r.Use(rt.chiMw.RateLimit())
			if rt.authMw != nil {
				r.Use(rt.authMw.Identify)
			}

			r.Get("/recommendations", rt.handler.SimilarItems)
			r.Get("/discovery/{surface}", rt.handler.Discovery)
			r.Get("/stats", rt.handler.Stats)

			if rt.authMw != nil {
				r.With(rt.authMw.RequireUser).Post("/items", rt.handler.CreateItem)
			} else {
				r.Post("/items", rt.handler.CreateItem)
			}
		})
	})

	return r
}
