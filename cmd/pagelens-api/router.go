// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pagelens/pagelens/cmd/pagelens-api/handlers"
	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/observability"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, service *extract.Service, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"pagelens","status":"ok"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"pagelens"}`))
	})

	extractionHandler := handlers.NewExtractionHandler(logger, service, cfg.Sample.Path)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/extract", func(r chi.Router) {
			r.Post("/", extractionHandler.Extract)
			r.Get("/sample", extractionHandler.Sample)
		})
	})

	return r
}
