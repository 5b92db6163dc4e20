// Package pathsafe validates repository paths and file arguments before
// they reach any subprocess. Every operation path must resolve inside a
// configured allowed root; file arguments must stay inside their
// repository.
package pathsafe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InvalidInputError reports a malformed or unsafe path argument. It is
// never retried and surfaces verbatim to the caller.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// Validator confines paths to a set of allowed roots.
type Validator struct {
	roots []string
}

// New creates a validator. Roots must be absolute; relative roots are
// rejected at construction.
func New(roots []string) (*Validator, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one allowed root is required")
	}
	cleaned := make([]string, len(roots))
	for i, r := range roots {
		if !filepath.IsAbs(r) {
			return nil, fmt.Errorf("allowed root %q is not absolute", r)
		}
		cleaned[i] = filepath.Clean(r)
	}
	return &Validator{roots: cleaned}, nil
}

// Roots returns the configured allowed roots.
func (v *Validator) Roots() []string {
	return v.roots
}

// Repo converts a repository path argument into an absolute, root-confined
// path. Relative paths resolve against the first allowed root.
func (v *Validator) Repo(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", invalid("repository path is empty")
	}
	if strings.ContainsRune(path, 0) {
		return "", invalid("repository path contains a null byte")
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(v.roots[0], abs)
	}
	abs = filepath.Clean(abs)

	for _, root := range v.roots {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return abs, nil
		}
	}
	return "", invalid("path %q is outside the allowed roots", path)
}

// Files validates explicit file arguments for an operation on repo. Each
// entry must be a relative path that stays inside the repository.
func (v *Validator) Files(files []string) error {
	for _, f := range files {
		if strings.TrimSpace(f) == "" {
			return invalid("file argument is empty")
		}
		if strings.ContainsRune(f, 0) {
			return invalid("file argument contains a null byte")
		}
		if filepath.IsAbs(f) {
			return invalid("file argument %q is absolute", f)
		}
		clean := filepath.Clean(filepath.FromSlash(f))
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return invalid("file argument %q escapes the repository", f)
		}
	}
	return nil
}
