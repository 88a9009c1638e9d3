// Package docstore provides read access to course transcript documents.
// Transcripts can live in a local directory, an S3 bucket, or a checked-out
// git repository; each backend exposes the same listing and reading surface
// so ingestion does not care where the files come from.
package docstore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Provider lists and reads transcript documents from a storage backend.
type Provider interface {
	// List returns the names of all documents available in the backend,
	// relative to its configured root.
	List(ctx context.Context) ([]string, error)

	// Read returns the full content of a named document.
	Read(ctx context.Context, name string) ([]byte, error)
}

// BackendType identifies a document storage backend.
type BackendType string

const (
	// BackendLocal reads transcripts from a local directory.
	BackendLocal BackendType = "local"
	// BackendS3 reads transcripts from an S3 bucket.
	BackendS3 BackendType = "s3"
	// BackendGit reads transcripts from a git repository.
	BackendGit BackendType = "git"
)

// Config selects and configures a document backend.
type Config struct {
	Backend BackendType

	Local *LocalConfig
	S3    *S3Config
	Git   *GitConfig
}

// LocalConfig configures the local directory backend.
type LocalConfig struct {
	// Dir is the directory holding transcript files.
	Dir string
}

// S3Config configures the S3 backend.
type S3Config struct {
	// Bucket is the S3 bucket name.
	Bucket string
	// Prefix is an optional key prefix under which transcripts live.
	Prefix string
	// Client is the AWS S3 client to use.
	Client *s3.Client
}

// New constructs the Provider selected by cfg.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Backend {
	case BackendLocal:
		if cfg.Local == nil || cfg.Local.Dir == "" {
			return nil, fmt.Errorf("document directory is required for local backend")
		}
		return NewLocalProvider(cfg.Local.Dir), nil

	case BackendS3:
		if cfg.S3 == nil {
			return nil, fmt.Errorf("s3 config is required for s3 backend")
		}
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("bucket is required for s3 backend")
		}
		if cfg.S3.Client == nil {
			return nil, fmt.Errorf("s3 client is required for s3 backend")
		}
		return NewS3Provider(cfg.S3.Bucket, cfg.S3.Prefix, NewAWSObjectClient(cfg.S3.Client)), nil

	case BackendGit:
		if cfg.Git == nil {
			return nil, fmt.Errorf("git config is required for git backend")
		}
		return NewGitProvider(ctx, *cfg.Git)

	default:
		return nil, fmt.Errorf("unsupported document backend: %s", cfg.Backend)
	}
}

// IsTranscript reports whether a document name looks like a course
// transcript. Only plain-text transcripts are ingested.
func IsTranscript(name string) bool {
	return strings.EqualFold(path.Ext(name), ".txt")
}
