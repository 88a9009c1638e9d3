package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey     string        `env:"ANTHROPIC_API_KEY" yaml:"api_key" required:"true"`
	Model      string        `env:"CLAUDE_MODEL" yaml:"model" default:"claude-sonnet-4-5-20250929"`
	MaxTokens  int           `env:"CLAUDE_MAX_TOKENS" yaml:"max_tokens" default:"800"`
	MaxRetries int           `env:"ANTHROPIC_MAX_RETRIES" yaml:"max_retries" default:"2"`
	Timeout    time.Duration `env:"ANTHROPIC_TIMEOUT" yaml:"timeout" default:"30s"`
}

// Validate checks the Anthropic configuration.
func (c AnthropicConfig) Validate() error {
	var result error
	if c.MaxTokens <= 0 {
		result = multierror.Append(result, fmt.Errorf("claude_max_tokens must be greater than 0, got %d", c.MaxTokens))
	}
	if c.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("anthropic_max_retries cannot be negative, got %d", c.MaxRetries))
	}
	if c.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("anthropic_timeout must be greater than 0"))
	}
	return result
}
