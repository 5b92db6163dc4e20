package git

import (
	"context"
	"strings"
	"time"

	"github.com/raphi011/mcpgit/internal/cmd"
)

// Timeouts bounds the lifetime of each class of git invocation.
type Timeouts struct {
	// Fast covers metadata queries (branch, remotes, rev-parse).
	Fast time.Duration
	// Op covers local working-tree operations (status, diff, add, commit).
	Op time.Duration
	// Network covers push and pull.
	Network time.Duration
}

// DefaultTimeouts returns the stock timeout set.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Fast:    5 * time.Second,
		Op:      60 * time.Second,
		Network: 180 * time.Second,
	}
}

// forcedEnv makes every invocation deterministic: no credential prompts,
// no optional locks, and repository discovery across filesystem
// boundaries (parents backed by symlinked or bind-mounted filesystems).
// Everything else is inherited.
var forcedEnv = map[string]string{
	"GIT_TERMINAL_PROMPT":             "0",
	"GIT_OPTIONAL_LOCKS":              "0",
	"GIT_DISCOVERY_ACROSS_FILESYSTEM": "1",
}

// Service is the git operations facade. It resolves the binary through its
// Resolver and enforces per-class timeouts on every subprocess.
type Service struct {
	resolver *Resolver
	timeouts Timeouts
}

// NewService constructs a Service around a resolver.
func NewService(resolver *Resolver) *Service {
	return &Service{resolver: resolver, timeouts: DefaultTimeouts()}
}

// WithTimeouts overrides the default timeout set.
func (s *Service) WithTimeouts(t Timeouts) *Service {
	s.timeouts = t
	return s
}

// run executes git in dir and returns the captured output. Errors are
// mapped into the package taxonomy.
func (s *Service) run(ctx context.Context, dir string, opts cmd.Options, args ...string) (cmd.Result, error) {
	bin, err := s.resolver.Resolve(ctx, dir)
	if err != nil {
		return cmd.Result{}, err
	}
	if opts.Env == nil {
		opts.Env = forcedEnv
	} else {
		for k, v := range forcedEnv {
			opts.Env[k] = v
		}
	}
	res, err := cmd.Run(ctx, dir, opts, bin, args...)
	if err != nil {
		return cmd.Result{}, mapError(err)
	}
	return res, nil
}

// fast runs a metadata query and returns trimmed stdout.
func (s *Service) fast(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := s.run(ctx, dir, cmd.Options{Timeout: s.timeouts.Fast}, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// op runs a working-tree operation and returns raw stdout.
func (s *Service) op(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := s.run(ctx, dir, cmd.Options{Timeout: s.timeouts.Op}, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}
