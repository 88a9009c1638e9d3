package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// EmbeddingConfig holds configuration for the embeddings backend. Any
// OpenAI-compatible endpoint works via the base URL.
type EmbeddingConfig struct {
	APIKey     string        `env:"EMBEDDING_API_KEY" yaml:"embedding_api_key" required:"true"`
	BaseURL    string        `env:"EMBEDDING_BASE_URL" yaml:"embedding_base_url"`
	Model      string        `env:"EMBEDDING_MODEL" yaml:"embedding_model" default:"text-embedding-3-small"`
	MaxRetries int           `env:"EMBEDDING_MAX_RETRIES" yaml:"embedding_max_retries" default:"2"`
	Timeout    time.Duration `env:"EMBEDDING_TIMEOUT" yaml:"embedding_timeout" default:"30s"`
}

// Validate checks the embedding configuration.
func (c EmbeddingConfig) Validate() error {
	var result error
	if c.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("embedding_max_retries cannot be negative, got %d", c.MaxRetries))
	}
	if c.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("embedding_timeout must be greater than 0"))
	}
	return result
}
