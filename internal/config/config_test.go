package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 100, cfg.Scan.MaxRepos)
	assert.Equal(t, 5, cfg.Scan.MaxDepth)
	assert.Empty(t, cfg.AllowedRoots)
}

func TestTimeoutFallbacks(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 5*time.Second, cfg.FastTimeout(5*time.Second))

	cfg.Timeouts.OpSeconds = 120
	assert.Equal(t, 120*time.Second, cfg.OpTimeout(60*time.Second))

	cfg.Timeouts.NetworkSeconds = -1
	assert.Equal(t, 180*time.Second, cfg.NetworkTimeout(180*time.Second))
}

func TestTasksPath_Explicit(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.TasksFile = "/var/lib/mcpgit/tasks.json"

	path, err := cfg.TasksPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/mcpgit/tasks.json", path)
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/repos")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "repos"), got)

	got, err = expandPath("/absolute/path")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path", got)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "mcpgit")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := `
allowed_roots = ["~/repos", "/srv/checkouts"]
git_path = "/usr/local/bin/git"

[scan]
max_repos = 7

[timeouts]
network_seconds = 300
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(home, "repos"), "/srv/checkouts"}, cfg.AllowedRoots)
	assert.Equal(t, "/usr/local/bin/git", cfg.GitPath)
	assert.Equal(t, 7, cfg.Scan.MaxRepos)
	// Unset sections keep their defaults.
	assert.Equal(t, 5, cfg.Scan.MaxDepth)
	assert.Equal(t, 300*time.Second, cfg.NetworkTimeout(180*time.Second))
}

func TestLoad_RelativeRootRejected(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "mcpgit")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("allowed_roots = [\"relative/path\"]\n"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedFileSurfaces(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "mcpgit")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("allowed_roots = [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}
