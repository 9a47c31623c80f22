package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/savingsboard/internal/middleware"
	"github.com/atinyakov/savingsboard/internal/observability/metrics"
)

// NewRouter constructs and returns an HTTP handler that serves the board
// relay API and the Prometheus scrape endpoint.
//
// Routes:
//
//	GET  /api/board  → boardHandler.Status
//	POST /api/board  → boardHandler.Action
//	GET  /metrics    → Prometheus metrics
//
// Middleware chain (applied in order):
//  1. Recoverer            turns panics into 500s
//  2. WithRequestID        assigns X-Request-ID
//  3. WithRequestLogging   logs each request and its metadata
//  4. HTTPMetricsMiddleware records request counts and latency
func NewRouter(boardHandler *BoardHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(metrics.HTTPMetricsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", boardHandler.Status)
		r.Post("/board", boardHandler.Action)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
