// Package config defines the application configuration, loaded from a YAML
// file overlaid with environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	pkgconfig "github.com/lewisedginton/course_materials_chatbot/pkg/config"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

// AppConfig holds all application configuration.
type AppConfig struct {
	// Service configuration
	ServiceName string `env:"SERVICE_NAME" yaml:"service_name" default:"course-materials-chatbot"`
	Version     string `env:"VERSION" yaml:"version" default:"dev"`
	Environment string `env:"ENVIRONMENT" yaml:"environment" default:"development"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,inline"`

	// HTTP server configuration
	HTTP pkgconfig.HTTPServerConfig `yaml:"http,inline"`

	// Metrics configuration
	Metrics pkgconfig.MetricsConfig `yaml:"metrics,inline"`

	// Anthropic/Claude configuration
	Anthropic AnthropicConfig `yaml:"anthropic,inline"`

	// Embeddings configuration
	Embedding EmbeddingConfig `yaml:"embedding,inline"`

	// Transcript chunking configuration
	Chunking ChunkingConfig `yaml:"chunking,inline"`

	// Retrieval configuration
	Search SearchConfig `yaml:"search,inline"`

	// Session memory configuration
	Session SessionConfig `yaml:"session,inline"`

	// Transcript document source configuration
	Documents DocumentsConfig `yaml:"documents,inline"`

	// Security configuration
	Security SecurityConfig `yaml:"security,inline"`

	// StaticDir is the frontend directory served at /.
	StaticDir string `env:"STATIC_DIR" yaml:"static_dir" default:"./frontend"`
}

// Load reads configuration from the given YAML file (optional) overlaid
// with environment variables, then validates it.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := pkgconfig.GetConfig(&cfg, path, true); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate aggregates validation errors across all sections.
func (c *AppConfig) Validate() error {
	var result error

	for _, v := range []pkgconfig.Validator{
		c.Logging,
		c.HTTP,
		c.Metrics,
		c.Anthropic,
		c.Embedding,
		c.Chunking,
		c.Search,
		c.Session,
		c.Documents,
		c.Security,
	} {
		if err := v.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result
}

// GetLogLevel returns the parsed logger level.
func (c *AppConfig) GetLogLevel() logger.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return logger.DebugLevel
	case "warn", "warning":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

// IsProduction returns true if running in production environment.
func (c *AppConfig) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// LogConfig logs the current configuration (without sensitive data).
func (c *AppConfig) LogConfig(log logger.Logger) {
	log.Info("Application configuration loaded",
		logger.StringField("service_name", c.ServiceName),
		logger.StringField("version", c.Version),
		logger.StringField("environment", c.Environment),
		logger.IntField("http_port", c.HTTP.Port),
		logger.StringField("claude_model", c.Anthropic.Model),
		logger.StringField("embedding_model", c.Embedding.Model),
		logger.StringField("document_backend", c.Documents.Backend),
		logger.StringField("log_level", c.Logging.Level),
		logger.StringField("log_format", c.Logging.Format),
		logger.BoolField("metrics_exposed", c.Metrics.ExposeMetrics),
	)
}
