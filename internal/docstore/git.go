package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-git/go-git/v5"
)

// GitConfig configures the git document backend.
type GitConfig struct {
	// Path is the local checkout location.
	Path string
	// URL is the remote to clone from when the checkout does not exist
	// yet. Optional when Path already holds a repository.
	URL string
	// Subdir restricts listing to a directory inside the repository,
	// e.g. "docs" in a larger course-materials repo.
	Subdir string
}

// GitProvider reads transcript documents from a git checkout. The
// repository is cloned on construction if missing and pulled on each List
// so ingestion sees the latest transcripts.
type GitProvider struct {
	repoPath string
	subdir   string
	repo     *git.Repository
	mu       sync.Mutex
}

// NewGitProvider opens or clones the configured repository.
func NewGitProvider(ctx context.Context, cfg GitConfig) (*GitProvider, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("repository path is required")
	}

	repo, err := git.PlainOpen(cfg.Path)
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("failed to open git repository: %w", err)
		}
		if cfg.URL == "" {
			return nil, fmt.Errorf("no repository at %s and no clone URL configured", cfg.Path)
		}
		repo, err = git.PlainCloneContext(ctx, cfg.Path, false, &git.CloneOptions{
			URL: cfg.URL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to clone %s: %w", cfg.URL, err)
		}
	}

	return &GitProvider{
		repoPath: cfg.Path,
		subdir:   cfg.Subdir,
		repo:     repo,
	}, nil
}

// List pulls the latest changes when a remote is configured, then walks the
// working tree. Names are relative to the configured subdirectory.
func (p *GitProvider) List(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.pull(ctx); err != nil {
		return nil, err
	}

	root := filepath.Join(p.repoPath, filepath.FromSlash(p.subdir))

	var result []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() && info.Name() == git.GitDirName {
			return filepath.SkipDir
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(root, path)
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

// Read returns the content of a document in the working tree.
func (p *GitProvider) Read(ctx context.Context, name string) ([]byte, error) {
	full := filepath.Join(p.repoPath, filepath.FromSlash(p.subdir), filepath.FromSlash(name))
	return os.ReadFile(full) //nolint:gosec // G304: path is rooted at the configured checkout
}

// pull fast-forwards the working tree. Repositories without a remote, such
// as locally initialized test fixtures, are left as they are.
func (p *GitProvider) pull(ctx context.Context) error {
	remotes, err := p.repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return nil
	}

	worktree, err := p.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to pull latest transcripts: %w", err)
	}
	return nil
}
