package server

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raphi011/mcpgit/internal/cmd"
	"github.com/raphi011/mcpgit/internal/config"
	"github.com/raphi011/mcpgit/internal/git"
	"github.com/raphi011/mcpgit/internal/pathsafe"
	"github.com/raphi011/mcpgit/internal/tasks"
)

// newTestServer builds a server over a real git repo inside a confined
// root. Returns the server and the repository path.
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	repoPath := filepath.Join(root, "repo")

	gitRun(t, "", "init", "-b", "main", repoPath)
	gitRun(t, repoPath, "config", "user.email", "test@test.com")
	gitRun(t, repoPath, "config", "user.name", "Test User")
	gitRun(t, repoPath, "config", "commit.gpgsign", "false")

	validator, err := pathsafe.New([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	store := tasks.NewStore(filepath.Join(root, "tasks.json"))
	svc := git.NewService(git.NewResolver())

	return New("test", config.Default(), svc, validator, store), repoPath
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	_, err := cmd.Run(context.Background(), dir,
		cmd.Options{Env: map[string]string{"GIT_TERMINAL_PROMPT": "0"}},
		"git", args...)
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	srv, repoPath := newTestServer(t)
	gitRun(t, repoPath, "commit", "--allow-empty", "-m", "Initial commit")

	res, err := srv.handleStatus(context.Background(), callRequest(map[string]any{"path": repoPath}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), "\"dirty\"") {
		t.Errorf("unexpected payload: %s", resultText(t, res))
	}
}

func TestHandleStatus_PathOutsideRoots(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	res, err := srv.handleStatus(context.Background(), callRequest(map[string]any{"path": "/etc"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for path outside roots")
	}
	if !strings.Contains(resultText(t, res), "allowed roots") {
		t.Errorf("unexpected error payload: %s", resultText(t, res))
	}
}

func TestHandleStatus_MissingPathArgument(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	res, err := srv.handleStatus(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing path")
	}
}

func TestHandleCommit_FailureIsPayloadNotProtocolError(t *testing.T) {
	t.Parallel()

	srv, repoPath := newTestServer(t)

	// Nothing staged, no commits yet: the operation fails, the protocol
	// call does not.
	res, err := srv.handleCommit(context.Background(), callRequest(map[string]any{
		"path":    repoPath,
		"message": "Nothing to commit",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result when nothing is staged")
	}
}

func TestTaskHandlers_Roundtrip(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	ctx := context.Background()

	res, err := srv.handleTaskAdd(ctx, callRequest(map[string]any{"title": "ship it", "notes": "soon"}))
	if err != nil || res.IsError {
		t.Fatalf("task add failed: %v %v", err, res)
	}
	if !strings.Contains(resultText(t, res), "ship it") {
		t.Errorf("unexpected payload: %s", resultText(t, res))
	}

	res, err = srv.handleTaskList(ctx, callRequest(map[string]any{}))
	if err != nil || res.IsError {
		t.Fatalf("task list failed: %v %v", err, res)
	}
	if !strings.Contains(resultText(t, res), "ship it") {
		t.Errorf("task missing from list: %s", resultText(t, res))
	}

	res, err = srv.handleTaskDone(ctx, callRequest(map[string]any{"id": float64(1)}))
	if err != nil || res.IsError {
		t.Fatalf("task done failed: %v %v", err, res)
	}

	res, err = srv.handleTaskRemove(ctx, callRequest(map[string]any{"id": float64(1)}))
	if err != nil || res.IsError {
		t.Fatalf("task remove failed: %v %v", err, res)
	}

	res, err = srv.handleTaskList(ctx, callRequest(map[string]any{"include_done": true}))
	if err != nil || res.IsError {
		t.Fatalf("task list failed: %v %v", err, res)
	}
	if strings.Contains(resultText(t, res), "ship it") {
		t.Errorf("task still present after removal: %s", resultText(t, res))
	}
}
