package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_OverrideFailureDoesNotFallBack(t *testing.T) {
	t.Parallel()

	r := NewResolver().WithOverride(filepath.Join(t.TempDir(), "no-such-git"))

	_, err := r.Resolve(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGitNotFound)
	assert.Contains(t, err.Error(), EnvGitPath)
}

func TestResolver_OverrideAccepted(t *testing.T) {
	t.Parallel()

	fake := writeFakeGit(t)
	r := NewResolver().WithOverride(fake)

	path, err := r.Resolve(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, fake, path)
}

func TestResolver_CandidateOrder(t *testing.T) {
	t.Parallel()

	fake := writeFakeGit(t)
	r := NewResolver()
	r.candidates = []string{filepath.Join(t.TempDir(), "missing"), fake}
	r.getenv = func(string) string { return "" }

	path, err := r.Resolve(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, fake, path)
}

func TestResolver_NoCandidateAnswers(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.candidates = []string{filepath.Join(t.TempDir(), "missing")}
	r.getenv = func(string) string { return "" }

	_, err := r.Resolve(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrGitNotFound)
}

func TestResolver_CachesPerDirectory(t *testing.T) {
	t.Parallel()

	fake := writeFakeGit(t)
	r := NewResolver()
	r.candidates = []string{fake}
	r.getenv = func(string) string { return "" }

	dir := t.TempDir()
	path, err := r.Resolve(context.Background(), dir)
	require.NoError(t, err)

	// Removing the binary proves the second call is served from cache.
	require.NoError(t, os.Remove(fake))
	again, err := r.Resolve(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, path, again)

	// A different directory re-probes and now fails.
	_, err = r.Resolve(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func writeFakeGit(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "git")
	script := "#!/bin/sh\necho git version 2.43.0\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}
