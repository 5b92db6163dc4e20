package git

import (
	"context"
	"strings"

	"github.com/raphi011/mcpgit/internal/cmd"
)

// DiffOptions selects what a diff covers.
type DiffOptions struct {
	// Staged diffs the index against HEAD instead of the working tree.
	Staged bool
	// Base diffs against a reference (branch, tag, commit).
	Base string
	// Files restricts the diff to the given paths.
	Files []string
}

// Diff returns raw patch text. With a base reference, three modes are
// tried in order: working tree vs base; index vs base (staged-only changes
// are invisible against the working tree); and a no-index diff against
// /dev/null, which renders untracked files as added-file patches.
func (s *Service) Diff(ctx context.Context, dir string, opt DiffOptions) (string, error) {
	if opt.Base == "" {
		args := []string{"diff"}
		if opt.Staged {
			args = append(args, "--cached")
		}
		args = appendPathspec(args, opt.Files)
		return s.op(ctx, dir, args...)
	}

	out, err := s.op(ctx, dir, appendPathspec([]string{"diff", opt.Base}, opt.Files)...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) != "" {
		return out, nil
	}

	out, err = s.op(ctx, dir, appendPathspec([]string{"diff", "--cached", opt.Base}, opt.Files)...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) != "" {
		return out, nil
	}

	return s.untrackedDiff(ctx, dir, opt.Files)
}

// untrackedDiff renders untracked files as patches via no-index diffs
// against /dev/null. Exit code 1 signals "differences found", not failure.
func (s *Service) untrackedDiff(ctx context.Context, dir string, files []string) (string, error) {
	targets := files
	if len(targets) == 0 {
		st, err := s.Status(ctx, dir, StatusOptions{})
		if err != nil {
			return "", err
		}
		for _, e := range st.Untracked {
			targets = append(targets, e.Path)
		}
	}

	var b strings.Builder
	for _, f := range targets {
		res, err := s.run(ctx, dir,
			cmd.Options{Timeout: s.timeouts.Op, OKCodes: []int{0, 1}},
			"diff", "--no-index", "--", "/dev/null", f)
		if err != nil {
			continue
		}
		b.WriteString(res.Stdout)
	}
	return b.String(), nil
}

func appendPathspec(args, files []string) []string {
	if len(files) == 0 {
		return args
	}
	return append(append(args, "--"), files...)
}
