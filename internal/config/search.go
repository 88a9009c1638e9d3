package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SearchConfig controls retrieval behaviour.
type SearchConfig struct {
	// TopK bounds how many chunks a content search returns.
	TopK int `env:"SEARCH_TOP_K" yaml:"search_top_k" default:"5"`

	// MinScore is the cosine-similarity floor for fuzzy course
	// resolution; matches below it are treated as not found.
	MinScore float64 `env:"SEARCH_MIN_SCORE" yaml:"search_min_score" default:"0.2"`

	// MaxToolRounds bounds how many times the model may call tools per
	// query.
	MaxToolRounds int `env:"SEARCH_MAX_TOOL_ROUNDS" yaml:"search_max_tool_rounds" default:"2"`
}

// Validate checks the search configuration.
func (c SearchConfig) Validate() error {
	var result error
	if c.TopK <= 0 {
		result = multierror.Append(result, fmt.Errorf("search_top_k must be greater than 0, got %d", c.TopK))
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		result = multierror.Append(result, fmt.Errorf("search_min_score must be between 0 and 1, got %f", c.MinScore))
	}
	if c.MaxToolRounds <= 0 {
		result = multierror.Append(result, fmt.Errorf("search_max_tool_rounds must be greater than 0, got %d", c.MaxToolRounds))
	}
	return result
}
