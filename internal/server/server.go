// Package server provides the HTTP API that drives the UI table: querying
// the reconciled record set, item lookups, and manual refresh.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"shipment-tracker/internal/config"
)

// Server is the HTTP server for the tracking API.
type Server struct {
	service *Service
	router  *chi.Mux
	server  *http.Server
	logger  zerolog.Logger
}

// NewServer creates a configured server around the load service.
func NewServer(service *Service, cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		service: service,
		router:  chi.NewRouter(),
		logger:  logger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/records", s.handleRecords)
		r.Get("/items", s.handleItems)
		r.Post("/refresh", s.handleRefresh)
	})

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
