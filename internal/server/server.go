// Package server implements the HTTP transport layer for the trainyard schedule service.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/propagation"

	"github.com/eugener/trainyard/internal/app"
	"github.com/eugener/trainyard/internal/telemetry"
)

// ReadyChecker reports whether the system is ready to serve traffic.
type ReadyChecker func(ctx context.Context) error

// CORSOptions controls which browser origins may call the API.
type CORSOptions struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// Deps holds all dependencies for the HTTP server.
type Deps struct {
	Schedules      *app.ScheduleService
	ReadyCheck     ReadyChecker                  // nil = always ready (for tests)
	Metrics        *telemetry.Metrics            // nil = no request metrics
	MetricsHandler http.Handler                  // nil = no /metrics endpoint
	CORS           *CORSOptions                  // nil = no CORS headers
	Propagator     propagation.TextMapPropagator // nil = global otel propagator
}

// New creates an http.Handler with all routes and middleware wired.
func New(deps Deps) http.Handler {
	s := &server{deps: deps}

	r := chi.NewRouter()

	// Global middleware
	r.Use(s.recovery)
	r.Use(s.traceContext)
	r.Use(s.requestID)
	r.Use(s.logging)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}
	if deps.CORS != nil {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: deps.CORS.AllowCredentials,
			MaxAge:           300,
		}))
	}

	// System endpoints
	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/submit", s.handleHealth) // placeholder kept for older clients

		r.Get("/trains", s.handleListTrains)
		r.Post("/trains", s.handleSubmitSchedule)
		r.Post("/posts", s.handleSubmitSchedule) // path used by the web form
		r.Get("/trains/{name}/times", s.handleTrainTimes)
		r.Delete("/trains/{name}", s.handleDeleteTrain)

		r.Get("/arrivals", s.handleTrainsAt)
		r.Get("/arrivals/next", s.handleNextSimultaneous)

		r.Delete("/cache", s.handleCachePurge)
	})

	return r
}

type server struct {
	deps Deps
}
