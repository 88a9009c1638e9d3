// Package server exposes the question-answering system over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	appconfig "github.com/lewisedginton/course_materials_chatbot/internal/config"
	"github.com/lewisedginton/course_materials_chatbot/internal/middleware"
	"github.com/lewisedginton/course_materials_chatbot/internal/orchestrator"
	"github.com/lewisedginton/course_materials_chatbot/internal/rag"
	"github.com/lewisedginton/course_materials_chatbot/pkg/health"
	"github.com/lewisedginton/course_materials_chatbot/pkg/httpmiddleware"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
	"github.com/lewisedginton/course_materials_chatbot/pkg/metrics"
)

// QueryService is the part of the RAG system the HTTP layer needs.
type QueryService interface {
	Query(ctx context.Context, sessionID, query string) (*orchestrator.Result, error)
	NewSession() string
	ClearSession(sessionID string)
	Analytics() rag.Analytics
}

// Server serves the chat API, health endpoints and the static frontend.
type Server struct {
	cfg     *appconfig.AppConfig
	system  QueryService
	metrics *metrics.Metrics
	router  chi.Router
	log     logger.Logger
}

// New builds the router and its middleware stack.
func New(cfg *appconfig.AppConfig, system QueryService, m *metrics.Metrics, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if system == nil {
		return nil, fmt.Errorf("query service is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Server{
		cfg:     cfg,
		system:  system,
		metrics: m,
		log:     log,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	router := chi.NewRouter()

	mwConfig := httpmiddleware.DefaultConfig()
	mwConfig.Logger = s.log
	mwConfig.EnableLogging = true
	// Panic recovery is handled below with a JSON body instead of chi's
	// plain-text Recoverer.
	mwConfig.EnableRecovery = false
	if len(s.cfg.Security.CORSAllowedOrigins) > 0 {
		mwConfig.CORS.AllowedOrigins = s.cfg.Security.CORSAllowedOrigins
	}
	httpmiddleware.ApplyToRouter(router, mwConfig)

	recoveryConfig := middleware.DefaultRecoveryConfig()
	recoveryConfig.Logger = s.log
	router.Use(middleware.Recovery(recoveryConfig))

	if s.cfg.Security.RateLimitEnabled {
		router.Use(chimiddleware.Throttle(s.cfg.Security.RateLimitRPS))
	}
	if s.metrics != nil && s.metrics.TotalHTTPRequestsCounter != nil {
		router.Use(s.metrics.HTTPMiddleware())
	}

	checker := s.buildHealthChecker()
	router.Get("/healthz", checker.LivenessHandler())
	router.Get("/readyz", checker.ReadinessHandler())

	router.Route("/api", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Get("/courses", s.handleCourses)
		r.Delete("/sessions/{sessionID}", s.handleClearSession)
	})

	if s.cfg.StaticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	return router
}

// buildHealthChecker wires readiness to the indexed corpus: the service is
// not ready until at least one course has been ingested.
func (s *Server) buildHealthChecker() *health.HealthChecker {
	// Threshold of 1 so an empty index reports not-ready immediately
	// rather than after repeated probes.
	checker := health.New(health.WithLogger(s.log), health.WithFailureThreshold(1))
	checker.AddReadinessCheck(health.NewCheckFunc("course-index", func(context.Context) error {
		if s.system.Analytics().TotalCourses == 0 {
			return fmt.Errorf("no courses indexed")
		}
		return nil
	}))
	return checker
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully. The Prometheus endpoint is started on its own port when
// exposure is enabled.
func (s *Server) Run(ctx context.Context) error {
	if s.metrics != nil && s.cfg.Metrics.ExposeMetrics {
		s.metrics.Listen(s.cfg.Metrics.Port)
	}

	httpServer := &http.Server{
		Addr:           fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler:        s.router,
		ReadTimeout:    s.cfg.HTTP.ReadTimeout(),
		WriteTimeout:   s.cfg.HTTP.WriteTimeout(),
		IdleTimeout:    s.cfg.HTTP.IdleTimeout(),
		MaxHeaderBytes: s.cfg.HTTP.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", logger.IntField("port", s.cfg.HTTP.Port))
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
