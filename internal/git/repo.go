package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// BranchInfo describes the checked-out branch and its upstream state.
type BranchInfo struct {
	Branch   string `json:"branch"`
	Detached bool   `json:"detached"`
	Upstream string `json:"upstream,omitempty"`
	Ahead    int    `json:"ahead"`
	Behind   int    `json:"behind"`
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when
// detached.
func (s *Service) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return s.fast(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// Branch returns the current branch with upstream tracking info. A missing
// upstream is not an error; Ahead/Behind stay zero.
func (s *Service) Branch(ctx context.Context, dir string) (*BranchInfo, error) {
	name, err := s.CurrentBranch(ctx, dir)
	if err != nil {
		return nil, err
	}
	info := &BranchInfo{Branch: name, Detached: name == "HEAD"}

	upstream, err := s.fast(ctx, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil || upstream == "" {
		return info, nil
	}
	info.Upstream = upstream

	counts, err := s.fast(ctx, dir, "rev-list", "--left-right", "--count", upstream+"...HEAD")
	if err != nil {
		return info, nil
	}
	if fields := strings.Fields(counts); len(fields) == 2 {
		info.Behind, _ = strconv.Atoi(fields[0])
		info.Ahead, _ = strconv.Atoi(fields[1])
	}
	return info, nil
}

// upstreamRemote returns the remote of the current upstream tracking
// branch ("origin" from "origin/main").
func (s *Service) upstreamRemote(ctx context.Context, dir string) (string, error) {
	upstream, err := s.fast(ctx, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		return "", err
	}
	remote, _, ok := strings.Cut(upstream, "/")
	if !ok || remote == "" {
		return "", fmt.Errorf("no remote in upstream ref %q", upstream)
	}
	return remote, nil
}

// pushDefaultRemote returns the configured remote.pushDefault, if any.
func (s *Service) pushDefaultRemote(ctx context.Context, dir string) (string, error) {
	out, err := s.fast(ctx, dir, "config", "--get", "remote.pushDefault")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("remote.pushDefault not set")
	}
	return out, nil
}

// remoteURL resolves a remote's fetch URL, or its push URL when push is
// set (push URLs may differ from fetch URLs).
func (s *Service) remoteURL(ctx context.Context, dir, remote string, push bool) (string, error) {
	args := []string{"remote", "get-url"}
	if push {
		args = append(args, "--push")
	}
	args = append(args, remote)
	return s.fast(ctx, dir, args...)
}

// Commit is one entry of the commit log.
type Commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// Log returns the most recent commits, newest first.
func (s *Service) Log(ctx context.Context, dir string, limit int) ([]Commit, error) {
	if limit <= 0 {
		limit = 10
	}
	out, err := s.op(ctx, dir,
		"log", "-n", strconv.Itoa(limit), "-z",
		"--pretty=format:%H%x1f%an%x1f%ae%x1f%aI%x1f%s")
	if err != nil {
		return nil, err
	}

	commits := []Commit{}
	for _, record := range strings.Split(out, "\x00") {
		fields := strings.Split(record, "\x1f")
		if len(fields) != 5 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    fields[0],
			Author:  fields[1],
			Email:   fields[2],
			Date:    fields[3],
			Subject: fields[4],
		})
	}
	return commits, nil
}
