// Package server provides HTTP server management and lifecycle handling for
// the medassist API. It includes server setup, middleware configuration,
// route management, and graceful shutdown capabilities with proper error
// handling and logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arvele/medassist-api/config"
	"github.com/arvele/medassist-api/handlers"
	"github.com/arvele/medassist-api/logging"
	"github.com/arvele/medassist-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.Handler
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler *handlers.Handler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Orchestrated entry point
	s.router.Post("/query", s.handler.HandleQuery)

	// Catalog routes
	s.router.Get("/products", s.handler.ServeProducts)
	s.router.Get("/products/search/{query}", s.handler.SearchProducts)
	s.router.Get("/products/{id}", s.handler.FindProductByID)

	// Direct specialist routes
	s.router.Get("/interactions", s.handler.CheckInteractions)
	s.router.Get("/dosage/{drug}", s.handler.CalculateDosage)
	s.router.Get("/coverage/{product}/{tier}", s.handler.AdviseCoverage)

	// Operational routes
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
