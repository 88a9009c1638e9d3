package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ChunkingConfig controls how transcripts are split for indexing.
type ChunkingConfig struct {
	// MaxChars is the target chunk size in characters.
	MaxChars int `env:"CHUNK_MAX_CHARS" yaml:"chunk_max_chars" default:"800"`

	// Overlap is how many trailing characters of one chunk are repeated
	// at the start of the next.
	Overlap int `env:"CHUNK_OVERLAP" yaml:"chunk_overlap" default:"100"`
}

// Validate checks the chunking configuration.
func (c ChunkingConfig) Validate() error {
	var result error
	if c.MaxChars <= 0 {
		result = multierror.Append(result, fmt.Errorf("chunk_max_chars must be greater than 0, got %d", c.MaxChars))
	}
	if c.Overlap < 0 {
		result = multierror.Append(result, fmt.Errorf("chunk_overlap cannot be negative, got %d", c.Overlap))
	}
	if c.Overlap >= c.MaxChars && c.MaxChars > 0 {
		result = multierror.Append(result, fmt.Errorf("chunk_overlap must be smaller than chunk_max_chars"))
	}
	return result
}
