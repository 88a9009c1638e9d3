package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DocumentsConfig selects where course transcripts are loaded from.
type DocumentsConfig struct {
	// Backend is one of "local", "s3" or "git".
	Backend string `env:"DOCUMENTS_BACKEND" yaml:"documents_backend" default:"local"`

	// Dir is the transcript directory for the local backend.
	Dir string `env:"DOCUMENTS_DIR" yaml:"documents_dir" default:"./docs"`

	// S3 backend settings.
	S3Bucket string `env:"DOCUMENTS_S3_BUCKET" yaml:"documents_s3_bucket"`
	S3Prefix string `env:"DOCUMENTS_S3_PREFIX" yaml:"documents_s3_prefix"`
	S3Region string `env:"DOCUMENTS_S3_REGION" yaml:"documents_s3_region"`

	// Git backend settings.
	GitURL    string `env:"DOCUMENTS_GIT_URL" yaml:"documents_git_url"`
	GitPath   string `env:"DOCUMENTS_GIT_PATH" yaml:"documents_git_path"`
	GitSubdir string `env:"DOCUMENTS_GIT_SUBDIR" yaml:"documents_git_subdir"`
}

// Validate checks that the selected backend has what it needs.
func (c DocumentsConfig) Validate() error {
	var result error

	switch c.Backend {
	case "local":
		if c.Dir == "" {
			result = multierror.Append(result, fmt.Errorf("documents_dir is required for the local backend"))
		}
	case "s3":
		if c.S3Bucket == "" {
			result = multierror.Append(result, fmt.Errorf("documents_s3_bucket is required for the s3 backend"))
		}
	case "git":
		if c.GitPath == "" {
			result = multierror.Append(result, fmt.Errorf("documents_git_path is required for the git backend"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("documents_backend must be one of [local, s3, git], got %q", c.Backend))
	}

	return result
}
