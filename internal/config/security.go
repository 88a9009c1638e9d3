package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SecurityConfig holds security-related configuration.
type SecurityConfig struct {
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" yaml:"cors_allowed_origins" default:"http://localhost:3000,http://localhost:8080"`
	MaxRequestSize     int64    `env:"MAX_REQUEST_SIZE" yaml:"max_request_size" default:"1048576"`
	RateLimitEnabled   bool     `env:"RATE_LIMIT_ENABLED" yaml:"rate_limit_enabled" default:"true"`
	RateLimitRPS       int      `env:"RATE_LIMIT_RPS" yaml:"rate_limit_rps" default:"100"`
}

// Validate checks the security configuration.
func (c SecurityConfig) Validate() error {
	var result error
	if c.MaxRequestSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("max_request_size must be greater than 0, got %d", c.MaxRequestSize))
	}
	if c.RateLimitEnabled && c.RateLimitRPS <= 0 {
		result = multierror.Append(result, fmt.Errorf("rate_limit_rps must be greater than 0 when rate limiting is enabled"))
	}
	return result
}
