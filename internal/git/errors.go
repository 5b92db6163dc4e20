package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/mcpgit/internal/cmd"
)

// ErrGitNotFound indicates git is not installed or not reachable.
var ErrGitNotFound = errors.New("git executable not found: install git (https://git-scm.com) or set MCPGIT_GIT_PATH")

// ErrNotARepository indicates the target directory is not inside a git
// repository.
var ErrNotARepository = errors.New("not a git repository: point the path at a directory inside a repository, or run 'git init' first")

// ErrNoStashEntries indicates a stash pop against an empty stash.
var ErrNoStashEntries = errors.New("no stash entries to pop")

// AuthTransportError reports a token supplied for a remote that does not
// speak HTTP(S). Header-based auth is refused rather than silently ignored.
type AuthTransportError struct {
	URL string
}

func (e *AuthTransportError) Error() string {
	return fmt.Sprintf("token auth requires an http(s) remote, got %q", e.URL)
}

// Git has no structured error output, so certain outcomes can only be
// recognized by scanning stdout/stderr for marker substrings. All markers
// live here so version/locale drift is fixed in one place. Scans are
// case-insensitive and evaluated in declaration order.
var (
	// notARepoMarkers identify the "ran outside a repository" failure.
	notARepoMarkers = []string{"not a git repository"}

	// unsupportedMarkers identify a subcommand or flag this git version
	// does not know, the only failure class that may trigger a fallback
	// recipe.
	unsupportedMarkers = []string{
		"is not a git command",
		"unknown option",
		"unknown switch",
		"unknown subcommand",
	}

	// noLocalChangesMarkers identify a stash push that had nothing to
	// save. Known weak point: this is output text, not a status code, and
	// may drift across git versions or locales.
	noLocalChangesMarkers = []string{"no local changes to save"}

	// stashConflictMarkers identify a stash pop that applied with merge
	// conflicts.
	stashConflictMarkers = []string{"conflict"}

	// noStashMarkers identify a stash pop against an empty stash.
	noStashMarkers = []string{"no stash entries"}
)

func containsMarker(output string, markers []string) bool {
	lower := strings.ToLower(output)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// mapError translates runner failures into the package taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if cmd.IsNotFound(err) {
		return fmt.Errorf("%w: %v", ErrGitNotFound, err)
	}
	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) && containsMarker(exitErr.Combined(), notARepoMarkers) {
		return ErrNotARepository
	}
	return err
}

// isUnsupported reports whether err means the resolved git version does not
// know the attempted command or flag. Only this class advances a fallback
// chain; everything else propagates.
func isUnsupported(err error) bool {
	var exitErr *cmd.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return containsMarker(exitErr.Combined(), unsupportedMarkers)
}
