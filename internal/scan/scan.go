// Package scan discovers git repositories under a directory tree and
// aggregates their status into an overview.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gitMarker is the metadata entry identifying a repository root. It can be
// a directory (regular repo) or a file (worktree).
const gitMarker = ".git"

// Repo identifies one discovered repository root.
type Repo struct {
	// Path is the absolute path of the repository root.
	Path string `json:"path"`
	// RelPath is relative to the scan root, always forward-slash
	// separated.
	RelPath string `json:"rel_path"`
	// Name is the directory base name.
	Name string `json:"name"`
}

// Options bounds a scan.
type Options struct {
	// MaxDepth limits traversal; the root is depth 0 and directories
	// beyond the limit are not expanded.
	MaxDepth int
	// MaxResults halts the scan once this many repositories are found.
	MaxResults int
}

// Scan walks rootDir breadth-first and returns the repository roots found.
// Repository roots are emitted but not descended into; hidden directories
// other than the root are skipped; symlink cycles are broken by tracking
// resolved paths.
func Scan(rootDir string, opt Options) ([]Repo, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("scan root %q is not a directory", rootDir)
	}

	type item struct {
		path  string
		depth int
	}

	queue := []item{{path: root, depth: 0}}
	visited := map[string]bool{}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		visited[resolved] = true
	}

	var repos []Repo
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(cur.path)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() && !isDirSymlink(filepath.Join(cur.path, entry.Name())) {
				continue
			}
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				// Covers the metadata dir itself and other hidden dirs.
				continue
			}

			childDepth := cur.depth + 1
			if childDepth > opt.MaxDepth {
				continue
			}

			child := filepath.Join(cur.path, name)
			resolved, err := filepath.EvalSymlinks(child)
			if err != nil {
				continue
			}
			if visited[resolved] {
				continue
			}
			visited[resolved] = true

			if isRepoRoot(child) {
				rel, err := filepath.Rel(root, child)
				if err != nil {
					continue
				}
				repos = append(repos, Repo{
					Path:    child,
					RelPath: filepath.ToSlash(rel),
					Name:    name,
				})
				if opt.MaxResults > 0 && len(repos) >= opt.MaxResults {
					return repos, nil
				}
				// Repository roots are not descended into.
				continue
			}

			queue = append(queue, item{path: child, depth: childDepth})
		}
	}
	return repos, nil
}

// isRepoRoot reports whether path contains the git metadata marker, which
// may be a directory or a file.
func isRepoRoot(path string) bool {
	info, err := os.Stat(filepath.Join(path, gitMarker))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}

func isDirSymlink(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
