package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eshaffer321/ration-form/internal/api/handlers"
	"github.com/eshaffer321/ration-form/internal/api/middleware"
	"github.com/eshaffer321/ration-form/internal/application/service"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
	"github.com/eshaffer321/ration-form/internal/observability/metrics"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	forms      *service.ExpenseService
	metrics    *metrics.Metrics
}

// NewServer creates a new API server.
// If repo is nil, the submission log endpoints are not mounted; if m is nil,
// /metrics is not mounted.
func NewServer(cfg Config, forms *service.ExpenseService, repo storage.Repository, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		repo:    repo,
		forms:   forms,
		metrics: m,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.Recoverer)

	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.forms.ActiveForms)
	s.router.Get("/health", healthHandler.ServeHTTP)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		// Form sessions
		formsHandler := handlers.NewFormsHandler(s.forms, s.logger)
		r.Post("/forms", formsHandler.Create)
		r.Route("/forms/{id}", func(r chi.Router) {
			r.Get("/", formsHandler.Get)
			r.Delete("/", formsHandler.Delete)
			r.Post("/actions", formsHandler.Dispatch)
			r.Post("/items", formsHandler.CommitItem)
			r.Post("/bill-draft", formsHandler.ImportBillDraft)
			r.Post("/submit", formsHandler.Submit)
		})

		// Receipt OCR
		receiptsHandler := handlers.NewReceiptsHandler(s.forms, s.logger)
		r.Post("/receipts", receiptsHandler.Scan)

		// Picker catalogs
		optionsHandler := handlers.NewOptionsHandler()
		r.Get("/options", optionsHandler.Get)

		// Submission log
		if s.repo != nil {
			submissionsHandler := handlers.NewSubmissionsHandler(s.repo, s.logger)
			r.Get("/submissions", submissionsHandler.List)
			r.Get("/submissions/{id}", submissionsHandler.Get)
			r.Get("/stats", submissionsHandler.Stats)
		}
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // OCR runs inside the request
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
