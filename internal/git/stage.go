package git

import (
	"context"
	"os"
	"path/filepath"
)

// StageResult reports what a staging operation touched.
type StageResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	All     bool     `json:"all"`
}

// Stage stages changes. With no files the whole tree is staged. With an
// explicit list, files present on disk are added and files that no longer
// exist are removed from the index only, tolerating paths git does not
// track.
func (s *Service) Stage(ctx context.Context, dir string, files []string) (*StageResult, error) {
	if len(files) == 0 {
		if _, err := s.op(ctx, dir, "add", "-A"); err != nil {
			return nil, err
		}
		return &StageResult{All: true, Added: []string{}, Removed: []string{}}, nil
	}

	res := &StageResult{Added: []string{}, Removed: []string{}}
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			res.Added = append(res.Added, f)
		} else {
			res.Removed = append(res.Removed, f)
		}
	}

	if len(res.Added) > 0 {
		args := append([]string{"add", "--"}, res.Added...)
		if _, err := s.op(ctx, dir, args...); err != nil {
			return nil, err
		}
	}
	if len(res.Removed) > 0 {
		args := append([]string{"rm", "--cached", "--ignore-unmatch", "--"}, res.Removed...)
		if _, err := s.op(ctx, dir, args...); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Unstage removes paths from the index, keeping worktree content. Prefers
// the modern restore command; an older git falls back to reset.
func (s *Service) Unstage(ctx context.Context, dir string, files []string) error {
	target := files
	if len(target) == 0 {
		target = []string{"."}
	}

	restoreArgs := append([]string{"restore", "--staged", "--"}, target...)
	_, err := s.op(ctx, dir, restoreArgs...)
	if err == nil {
		return nil
	}
	if !isUnsupported(err) {
		return err
	}

	resetArgs := append([]string{"reset", "-q", "HEAD", "--"}, target...)
	_, err = s.op(ctx, dir, resetArgs...)
	return err
}

// Restore discards changes, resetting index and worktree to HEAD. Prefers
// the modern restore command; the fallback is reset-then-checkout, where a
// reset failure is swallowed so checkout still gets a chance to run.
func (s *Service) Restore(ctx context.Context, dir string, files []string) error {
	target := files
	if len(target) == 0 {
		target = []string{"."}
	}

	restoreArgs := append([]string{"restore", "--source=HEAD", "--staged", "--worktree", "--"}, target...)
	_, err := s.op(ctx, dir, restoreArgs...)
	if err == nil {
		return nil
	}
	if !isUnsupported(err) {
		return err
	}

	resetArgs := append([]string{"reset", "-q", "HEAD", "--"}, target...)
	_, _ = s.op(ctx, dir, resetArgs...)

	checkoutArgs := append([]string{"checkout", "--"}, target...)
	_, err = s.op(ctx, dir, checkoutArgs...)
	return err
}
