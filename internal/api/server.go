// Package api exposes the report ingestion pipeline over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/concierge-reports/internal/progress"
	"github.com/ignite/concierge-reports/internal/service/ingest"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	ingest   *ingest.Service
	progress *progress.Tracker
	router   chi.Router
}

// NewServer builds the router. tracker may be nil when Redis is disabled;
// the progress endpoint then reports 404 for every batch.
func NewServer(svc *ingest.Service, tracker *progress.Tracker) *Server {
	s := &Server{ingest: svc, progress: tracker}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/reports", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/templates", s.handleTemplates)
		r.Get("/batches", s.handleListBatches)
		r.Get("/batches/{batchID}", s.handleGetBatch)
		r.Get("/batches/{batchID}/progress", s.handleGetProgress)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }
