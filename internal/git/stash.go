package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/mcpgit/internal/cmd"
)

// StashEntry is one entry of the stash list.
type StashEntry struct {
	Ref     string `json:"ref"`
	Branch  string `json:"branch,omitempty"`
	Subject string `json:"subject"`
}

// StashResult reports whether a stash entry was actually created. The exit
// code of stash push does not distinguish "created" from "nothing to
// stash", so creation is detected by diffing the stash list before and
// after and checking the output for the no-local-changes marker.
type StashResult struct {
	Created bool   `json:"created"`
	Ref     string `json:"ref,omitempty"`
}

// Stash saves local changes, untracked files included.
func (s *Service) Stash(ctx context.Context, dir, message string) (*StashResult, error) {
	before, err := s.StashList(ctx, dir)
	if err != nil {
		return nil, err
	}

	args := []string{"stash", "push", "-u"}
	if message != "" {
		args = append(args, "-m", message)
	}
	res, err := s.run(ctx, dir, cmd.Options{Timeout: s.timeouts.Op}, args...)
	if err != nil {
		return nil, err
	}
	if containsMarker(res.Stdout+"\n"+res.Stderr, noLocalChangesMarkers) {
		return &StashResult{Created: false}, nil
	}

	after, err := s.StashList(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(after) <= len(before) {
		return &StashResult{Created: false}, nil
	}
	return &StashResult{Created: true, Ref: after[0].Ref}, nil
}

// StashList returns the stash entries, newest first.
func (s *Service) StashList(ctx context.Context, dir string) ([]StashEntry, error) {
	out, err := s.op(ctx, dir, "stash", "list", "--format=%gd%x1f%s")
	if err != nil {
		return nil, err
	}

	entries := []StashEntry{}
	for _, line := range strings.Split(out, "\n") {
		ref, rest, ok := strings.Cut(strings.TrimSpace(line), "\x1f")
		if !ok || ref == "" {
			continue
		}
		entry := StashEntry{Ref: ref, Subject: rest}
		// Subjects look like "WIP on main: ..." or "On main: ...".
		if branch, ok := stashBranch(rest); ok {
			entry.Branch = branch
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func stashBranch(subject string) (string, bool) {
	rest := subject
	if cut, ok := strings.CutPrefix(rest, "WIP on "); ok {
		rest = cut
	} else if cut, ok := strings.CutPrefix(rest, "On "); ok {
		rest = cut
	} else {
		return "", false
	}
	branch, _, ok := strings.Cut(rest, ":")
	return branch, ok
}

// StashPopResult reports the outcome of a pop.
type StashPopResult struct {
	Popped    bool `json:"popped"`
	Conflicts bool `json:"conflicts"`
}

// StashPop applies and drops a stash entry. A pop that applies with merge
// conflicts exits 1; the outcome is classified from the combined output:
// conflict beats no-stash beats generic failure.
func (s *Service) StashPop(ctx context.Context, dir, ref string) (*StashPopResult, error) {
	args := []string{"stash", "pop"}
	if ref != "" {
		args = append(args, ref)
	}
	res, err := s.run(ctx, dir, cmd.Options{Timeout: s.timeouts.Op, OKCodes: []int{0, 1}}, args...)
	if err != nil {
		return nil, err
	}

	combined := res.Stdout + "\n" + res.Stderr
	switch {
	case containsMarker(combined, stashConflictMarkers):
		// Applied, but left conflict markers; the entry is kept.
		return &StashPopResult{Popped: false, Conflicts: true}, nil
	case containsMarker(combined, noStashMarkers):
		return nil, ErrNoStashEntries
	case res.Code != 0:
		return nil, fmt.Errorf("stash pop failed: %s", strings.TrimSpace(combined))
	}
	return &StashPopResult{Popped: true}, nil
}
