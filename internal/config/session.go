package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SessionConfig controls conversational memory.
type SessionConfig struct {
	// MaxHistory is how many past exchanges are retained per session.
	MaxHistory int `env:"SESSION_MAX_HISTORY" yaml:"session_max_history" default:"2"`
}

// Validate checks the session configuration.
func (c SessionConfig) Validate() error {
	var result error
	if c.MaxHistory <= 0 {
		result = multierror.Append(result, fmt.Errorf("session_max_history must be greater than 0, got %d", c.MaxHistory))
	}
	return result
}
