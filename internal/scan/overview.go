package scan

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/mcpgit/internal/git"
)

const (
	// overviewWorkers bounds concurrent git invocations during
	// aggregation, regardless of how many repositories were discovered.
	overviewWorkers = 4
	// overviewMaxDepth bounds the discovery walk.
	overviewMaxDepth = 5

	sampleLimit  = 8
	bucketLimit  = 250
	ignoredLimit = 800
)

// Inspector is the slice of the git facade the aggregator needs. Tests
// substitute an instrumented implementation.
type Inspector interface {
	CurrentBranch(ctx context.Context, dir string) (string, error)
	Status(ctx context.Context, dir string, opt git.StatusOptions) (*git.Status, error)
}

// PathChange merges a path's appearances across buckets. A path can carry
// several flags at once; Kind is the single-label classification with
// precedence conflicted > untracked > staged+unstaged > staged > unstaged.
type PathChange struct {
	Flags    []string `json:"flags"`
	Index    string   `json:"index"`
	Worktree string   `json:"worktree"`
	Kind     string   `json:"kind"`
}

// Counts holds per-bucket entry counts.
type Counts struct {
	Staged     int `json:"staged"`
	Unstaged   int `json:"unstaged"`
	Untracked  int `json:"untracked"`
	Conflicted int `json:"conflicted"`
}

// RepoOverview is one row of the aggregated overview.
type RepoOverview struct {
	Repo
	OK           bool                  `json:"ok"`
	Branch       string                `json:"branch,omitempty"`
	Dirty        bool                  `json:"dirty"`
	Counts       Counts                `json:"counts"`
	Changes      map[string]PathChange `json:"changes_by_path,omitempty"`
	Samples      map[string][]string   `json:"samples,omitempty"`
	Paths        map[string][]string   `json:"paths,omitempty"`
	IgnoredPaths []string              `json:"ignored_paths,omitempty"`
	IgnoredCount int                   `json:"ignored_count"`
}

// Overview scans rootDir for repositories and maps each to a status row,
// sorted by relative path. A fixed pool of workers drains a shared channel
// of indices, so the worker count rather than the repository count bounds
// concurrent subprocess invocations.
func Overview(ctx context.Context, insp Inspector, rootDir string, maxRepos int) ([]RepoOverview, error) {
	repos, err := Scan(rootDir, Options{MaxDepth: overviewMaxDepth, MaxResults: maxRepos})
	if err != nil {
		return nil, err
	}

	rows := make([]RepoOverview, len(repos))

	indices := make(chan int, len(repos))
	for i := range repos {
		indices <- i
	}
	close(indices)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < overviewWorkers; w++ {
		g.Go(func() error {
			for i := range indices {
				rows[i] = inspectRepo(ctx, insp, repos[i])
			}
			return nil
		})
	}
	_ = g.Wait() // Workers never fail; per-repo errors degrade the row.

	sort.Slice(rows, func(i, j int) bool { return rows[i].RelPath < rows[j].RelPath })
	return rows, nil
}

// inspectRepo builds one overview row. Failures after a successful branch
// query degrade to a minimal clean row rather than failing the
// aggregation.
func inspectRepo(ctx context.Context, insp Inspector, repo Repo) RepoOverview {
	row := RepoOverview{Repo: repo}

	branch, err := insp.CurrentBranch(ctx, repo.Path)
	if err != nil {
		return row
	}
	row.OK = true
	row.Branch = branch

	// Shallow pass: untracked files excluded to bound latency on large
	// trees; enough to decide dirtiness.
	shallow, err := insp.Status(ctx, repo.Path, git.StatusOptions{ExcludeUntracked: true})
	if err != nil {
		return row
	}

	if !shallow.Dirty() {
		// Ignored paths are still useful context for clean repos.
		if ignored, err := insp.Status(ctx, repo.Path, git.StatusOptions{ExcludeUntracked: true, IncludeIgnored: true}); err == nil {
			row.IgnoredCount = len(ignored.Ignored)
			row.IgnoredPaths = entryPaths(ignored.Ignored, ignoredLimit)
		}
		return row
	}

	full, err := insp.Status(ctx, repo.Path, git.StatusOptions{IncludeIgnored: true})
	if err != nil {
		return row
	}

	row.Dirty = true
	row.Counts = Counts{
		Staged:     len(full.Staged),
		Unstaged:   len(full.Unstaged),
		Untracked:  len(full.Untracked),
		Conflicted: len(full.Conflicted),
	}
	row.Changes = mergeChanges(full)
	row.Samples = map[string][]string{
		"staged":     entryPaths(full.Staged, sampleLimit),
		"unstaged":   entryPaths(full.Unstaged, sampleLimit),
		"untracked":  entryPaths(full.Untracked, sampleLimit),
		"conflicted": entryPaths(full.Conflicted, sampleLimit),
	}
	row.Paths = map[string][]string{
		"staged":     entryPaths(full.Staged, bucketLimit),
		"unstaged":   entryPaths(full.Unstaged, bucketLimit),
		"untracked":  entryPaths(full.Untracked, bucketLimit),
		"conflicted": entryPaths(full.Conflicted, bucketLimit),
	}
	row.IgnoredCount = len(full.Ignored)
	row.IgnoredPaths = entryPaths(full.Ignored, ignoredLimit)
	return row
}

// mergeChanges folds the four buckets into one record per path. Flags
// accumulate; a state character already set to non-blank is only
// overwritten by another non-blank character.
func mergeChanges(st *git.Status) map[string]PathChange {
	changes := map[string]PathChange{}

	merge := func(entries []git.StatusEntry, flag string) {
		for _, e := range entries {
			c, ok := changes[e.Path]
			if !ok {
				c = PathChange{Index: e.Index, Worktree: e.Worktree}
			}
			if !hasFlag(c.Flags, flag) {
				c.Flags = append(c.Flags, flag)
			}
			c.Index = mergeChar(c.Index, e.Index)
			c.Worktree = mergeChar(c.Worktree, e.Worktree)
			changes[e.Path] = c
		}
	}

	merge(st.Staged, "staged")
	merge(st.Unstaged, "unstaged")
	merge(st.Untracked, "untracked")
	merge(st.Conflicted, "conflicted")

	for path, c := range changes {
		c.Kind = classify(c.Flags)
		changes[path] = c
	}
	return changes
}

func classify(flags []string) string {
	switch {
	case hasFlag(flags, "conflicted"):
		return "conflicted"
	case hasFlag(flags, "untracked"):
		return "untracked"
	case hasFlag(flags, "staged") && hasFlag(flags, "unstaged"):
		return "staged+unstaged"
	case hasFlag(flags, "staged"):
		return "staged"
	}
	return "unstaged"
}

func mergeChar(current, next string) string {
	if next == "" || next == " " {
		return current
	}
	return next
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

func entryPaths(entries []git.StatusEntry, limit int) []string {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
