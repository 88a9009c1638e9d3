package docstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

// LocalProvider reads transcript documents from a local directory.
type LocalProvider struct {
	dir string
}

// NewLocalProvider creates a provider rooted at dir.
func NewLocalProvider(dir string) *LocalProvider {
	return &LocalProvider{dir: dir}
}

// List walks the directory and returns all file names relative to the root.
// A missing directory yields an empty list rather than an error so a fresh
// deployment can start before any transcripts are added.
func (p *LocalProvider) List(ctx context.Context) ([]string, error) {
	var result []string
	err := filepath.Walk(p.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(p.dir, path)
			if err == nil {
				result = append(result, filepath.ToSlash(rel))
			}
		}
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return []string{}, nil
	}
	sort.Strings(result)
	return result, err
}

// Read returns the content of a named document.
func (p *LocalProvider) Read(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(p.dir, filepath.FromSlash(name))) //nolint:gosec // G304: path is rooted at the configured dir
}
