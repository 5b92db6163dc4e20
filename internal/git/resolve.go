package git

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/raphi011/mcpgit/internal/cmd"
)

// EnvGitPath overrides binary resolution. When set, the named executable
// must answer a version probe; there is no fallback to the candidate list.
const EnvGitPath = "MCPGIT_GIT_PATH"

// probeTimeout bounds each version probe.
const probeTimeout = 5 * time.Second

// defaultCandidates are probed in order when no override is set. The bare
// name defers to PATH lookup; the rest cover common install locations.
var defaultCandidates = []string{
	"git",
	"/usr/bin/git",
	"/usr/local/bin/git",
	"/opt/homebrew/bin/git",
}

// Resolver locates the git executable and memoizes the result for one
// working directory at a time. Re-resolving on a different directory
// replaces the entry: single-entry memoization avoids both per-call probe
// cost and cross-directory staleness.
type Resolver struct {
	mu   sync.Mutex
	dir  string
	path string

	// Overridable for tests.
	candidates []string
	getenv     func(string) string
}

// NewResolver creates a resolver with the default candidate list.
func NewResolver() *Resolver {
	return &Resolver{candidates: defaultCandidates, getenv: os.Getenv}
}

// WithOverride pins the resolver to a fixed binary path, as if EnvGitPath
// were set to it.
func (r *Resolver) WithOverride(path string) *Resolver {
	r.getenv = func(key string) string {
		if key == EnvGitPath {
			return path
		}
		return os.Getenv(key)
	}
	return r
}

// Resolve returns the path of a git executable that answered a version
// probe, caching it per working directory.
func (r *Resolver) Resolve(ctx context.Context, dir string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dir == dir && r.path != "" {
		return r.path, nil
	}

	path, err := r.resolve(ctx, dir)
	if err != nil {
		return "", err
	}

	r.dir = dir
	r.path = path
	return path, nil
}

func (r *Resolver) resolve(ctx context.Context, dir string) (string, error) {
	if override := r.getenv(EnvGitPath); override != "" {
		if err := probe(ctx, dir, override); err != nil {
			return "", fmt.Errorf("%w: %s=%q failed version probe: %v", ErrGitNotFound, EnvGitPath, override, err)
		}
		return override, nil
	}

	for _, candidate := range r.candidates {
		if probe(ctx, dir, candidate) == nil {
			return candidate, nil
		}
	}
	return "", ErrGitNotFound
}

func probe(ctx context.Context, dir, path string) error {
	_, err := cmd.Run(ctx, dir, cmd.Options{Timeout: probeTimeout}, path, "--version")
	return err
}
