// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/recserve/internal/middleware"
)

// SetupChi builds the router. Every serving route sits behind the
// credential gate; /metrics is left open for the scrape target.
func SetupChi(handler *Handler, mw *ChiMiddleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.CORS())

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(handler.Authenticate)

		r.Get("/health", handler.Health)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(handler.Authenticate)

		r.Get("/reco/{modelName}/{userID}", handler.GetReco)
		r.Get("/explain/{modelName}/{userID}/{itemID}", handler.Explain)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
