// Package git provides git operations via shell commands.
//
// All operations use the git CLI directly rather than a Go git library.
// This approach is simpler, more reliable, and ensures compatibility with
// user configurations (SSH keys, credential helpers, aliases). Every
// invocation runs with a bounded lifetime and a deterministic environment:
// interactive credential prompts and optional locks are disabled, and
// repository discovery works across filesystem boundaries.
//
// # Binary resolution
//
// [Resolver] locates the git executable once per working directory,
// honoring the MCPGIT_GIT_PATH override, and memoizes the result.
//
// # Status
//
// [ParseStatus] decodes the NUL-delimited porcelain status stream and
// [Categorize] buckets entries into staged/unstaged/untracked/conflicted/
// ignored, the shape consumed by tools and the repository overview.
//
// # Operations
//
// [Service] is the operations facade: status, diff, staging, commit,
// push/pull with one-shot token auth, stash, and conflict inspection.
// Commands whose flags differ across git versions (unstage, restore) are
// modeled as ordered fallback chains; only "unsupported by this version"
// failures trigger the next recipe.
package git
