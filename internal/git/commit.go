package git

import (
	"context"
	"fmt"
	"strings"
)

// Identity is a transient author/committer override for a single
// invocation. It is passed as -c config and never written to any
// configuration file.
type Identity struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (id Identity) configArgs() []string {
	var args []string
	if id.Name != "" {
		args = append(args, "-c", "user.name="+id.Name)
	}
	if id.Email != "" {
		args = append(args, "-c", "user.email="+id.Email)
	}
	return args
}

// CommitOptions controls a commit.
type CommitOptions struct {
	Message    string
	Identity   Identity
	AllowEmpty bool
}

// CommitResult reports the created commit.
type CommitResult struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// Commit records the staged changes.
func (s *Service) Commit(ctx context.Context, dir string, opt CommitOptions) (*CommitResult, error) {
	if strings.TrimSpace(opt.Message) == "" {
		return nil, fmt.Errorf("commit message must not be empty")
	}

	args := opt.Identity.configArgs()
	args = append(args, "commit", "-m", opt.Message)
	if opt.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if _, err := s.op(ctx, dir, args...); err != nil {
		return nil, err
	}

	hash, err := s.fast(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}
	return &CommitResult{Hash: hash, Message: opt.Message}, nil
}
