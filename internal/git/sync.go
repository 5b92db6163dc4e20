package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/mcpgit/internal/cmd"
)

// PushOptions controls a push.
type PushOptions struct {
	Remote      string
	Branch      string
	SetUpstream bool
	Force       bool
	// Token enables one-shot HTTPS header auth for this call only.
	Token    string
	Identity Identity
}

// PushResult reports the push outcome.
type PushResult struct {
	Remote string `json:"remote"`
	Output string `json:"output"`
}

// Push sends local commits to a remote. When a token is supplied the auth
// header is built (and the transport vetted) before any push process is
// spawned.
func (s *Service) Push(ctx context.Context, dir string, opt PushOptions) (*PushResult, error) {
	args := opt.Identity.configArgs()

	if opt.Token != "" {
		header, err := s.BuildAuthHeader(ctx, dir, opt.Remote, DirectionPush, opt.Token)
		if err != nil {
			return nil, err
		}
		args = append(args, authConfigArgs(header)...)
	}

	args = append(args, "push")
	if opt.SetUpstream {
		args = append(args, "-u")
	}
	if opt.Force {
		args = append(args, "--force-with-lease")
	}
	if opt.Remote != "" {
		args = append(args, opt.Remote)
		if opt.Branch != "" {
			args = append(args, opt.Branch)
		}
	}

	res, err := s.run(ctx, dir, cmd.Options{Timeout: s.timeouts.Network}, args...)
	if err != nil {
		return nil, err
	}

	remote := opt.Remote
	if remote == "" {
		remote = "default"
	}
	// Push chatter goes to stderr.
	return &PushResult{Remote: remote, Output: strings.TrimSpace(res.Stderr + res.Stdout)}, nil
}

// PullMode selects the divergence strategy.
type PullMode string

const (
	// PullFFOnly refuses to create a merge commit; the safe default.
	PullFFOnly PullMode = "ff-only"
	PullRebase PullMode = "rebase"
	PullMerge  PullMode = "merge"
)

// PullOptions controls a pull.
type PullOptions struct {
	Remote string
	Branch string
	Mode   PullMode
	// Token enables one-shot HTTPS header auth for this call only.
	Token    string
	Identity Identity
}

// PullResult reports the pull outcome.
type PullResult struct {
	Output string `json:"output"`
}

// Pull fetches and integrates from a remote. The default is
// fast-forward-only: a silently created merge commit is an unsafe default,
// so rebase and merge are explicit opt-ins.
func (s *Service) Pull(ctx context.Context, dir string, opt PullOptions) (*PullResult, error) {
	args := opt.Identity.configArgs()

	if opt.Token != "" {
		header, err := s.BuildAuthHeader(ctx, dir, opt.Remote, DirectionPull, opt.Token)
		if err != nil {
			return nil, err
		}
		args = append(args, authConfigArgs(header)...)
	}

	args = append(args, "pull")
	switch opt.Mode {
	case "", PullFFOnly:
		args = append(args, "--ff-only")
	case PullRebase:
		args = append(args, "--rebase")
	case PullMerge:
		args = append(args, "--no-rebase")
	default:
		return nil, fmt.Errorf("unknown pull mode %q", opt.Mode)
	}
	if opt.Remote != "" {
		args = append(args, opt.Remote)
		if opt.Branch != "" {
			args = append(args, opt.Branch)
		}
	}

	res, err := s.run(ctx, dir, cmd.Options{Timeout: s.timeouts.Network}, args...)
	if err != nil {
		return nil, err
	}
	return &PullResult{Output: strings.TrimSpace(res.Stdout + res.Stderr)}, nil
}
