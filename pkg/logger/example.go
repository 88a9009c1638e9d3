package logger

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

/*
Example usage with config integration:

package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lewisedginton/course_materials_chatbot/pkg/config"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

// ServiceConfig combines config types with logger integration
type ServiceConfig struct {
	config.CommonConfig `yaml:",inline"`          // log_level
	Http               config.HttpServerConfig `yaml:"http,inline"`     // http_port, timeouts, etc.

	Service string `env:"SERVICE_NAME" yaml:"service" default:"my-service"`
}

func main() {
	// Load configuration
	var cfg ServiceConfig
	if err := config.GetConfig(&cfg, "config.yaml", true); err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create logger from config
	logger := logger.NewLogger(logger.Config{
		Level:   logger.ParseLevel(cfg.LogLevel), // From CommonConfig
		Format:  "json",
		Service: cfg.Service,
	})

	logger.Info("Service starting",
		logger.StringField("service", cfg.Service),
		logger.IntField("http_port", cfg.Http.Port),
	)

	// Create HTTP server with logger middleware
	r := chi.NewRouter()
	r.Use(logger.HTTPMiddleware) // Automatic request/response logging + correlation ID

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		// Get logger with correlation ID from request context
		requestLogger := logger.GetLoggerFromContext(r.Context(), logger)

		requestLogger.Info("Health check requested")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Create HTTP server with config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Http.Port),
		Handler:      r,
		ReadTimeout:  cfg.Http.ReadTimeout(),
		WriteTimeout: cfg.Http.WriteTimeout(),
		IdleTimeout:  cfg.Http.IdleTimeout(),
	}

	if err := server.ListenAndServe(); err != nil {
		logger.Error("Server failed", logger.ErrorField(err))
	}
}

Example config.yaml:
---
log_level: info
service: course-chatbot
http_port: 8080
read_timeout_seconds: 30
write_timeout_seconds: 30
*/

// ExampleHTTPServer shows a complete HTTP server setup with logger
func ExampleHTTPServer() {
	// This is a documentation example - not executable

	// Create logger
	logger := NewLogger(Config{
		Level:   InfoLevel,
		Format:  "json",
		Service: "example-api",
	})

	// Create router with logger middleware
	r := chi.NewRouter()
	r.Use(logger.HTTPMiddleware)

	r.Get("/courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		// Get logger with correlation ID from context
		requestLogger := GetLoggerFromContext(r.Context(), logger)

		courseID := chi.URLParam(r, "id")
		requestLogger.Info("Processing course request",
			StringField("course_id", courseID),
		)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})
}
