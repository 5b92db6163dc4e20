package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStage_All(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	writeFile(t, repoPath, "a.txt", "a\n")
	writeFile(t, repoPath, "README.md", "# changed\n")

	res, err := svc.Stage(ctx, repoPath, nil)
	if err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	if !res.All {
		t.Error("expected All to be set")
	}

	st, err := svc.Status(ctx, repoPath, StatusOptions{})
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	assertContains(t, bucketPaths(st.Staged), "a.txt", "README.md")
	if len(st.Unstaged)+len(st.Untracked) != 0 {
		t.Errorf("expected everything staged, got unstaged=%v untracked=%v",
			bucketPaths(st.Unstaged), bucketPaths(st.Untracked))
	}
}

func TestStage_PartitionsMissingFiles(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	writeFile(t, repoPath, "b.txt", "b\n")
	if err := os.Remove(filepath.Join(repoPath, "README.md")); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Stage(ctx, repoPath, []string{"b.txt", "README.md"})
	if err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	assertContains(t, res.Added, "b.txt")
	assertContains(t, res.Removed, "README.md")

	st, err := svc.Status(ctx, repoPath, StatusOptions{})
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	assertContains(t, bucketPaths(st.Staged), "b.txt", "README.md")
}

func TestStage_ToleratesUntrackedRemoval(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	svc := newTestService(t)

	// A path git never tracked and that is gone from disk must not fail
	// the whole operation.
	res, err := svc.Stage(context.Background(), repoPath, []string{"never-existed.txt"})
	if err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	assertContains(t, res.Removed, "never-existed.txt")
}

func TestUnstage_KeepsWorktreeContent(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	writeFile(t, repoPath, "README.md", "# changed\n")
	runGit(t, repoPath, "add", "README.md")

	if err := svc.Unstage(ctx, repoPath, []string{"README.md"}); err != nil {
		t.Fatalf("unstage failed: %v", err)
	}

	st, err := svc.Status(ctx, repoPath, StatusOptions{})
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if len(st.Staged) != 0 {
		t.Errorf("expected nothing staged, got %v", bucketPaths(st.Staged))
	}
	assertContains(t, bucketPaths(st.Unstaged), "README.md")

	content, err := os.ReadFile(filepath.Join(repoPath, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "# changed\n" {
		t.Errorf("worktree content lost: %q", content)
	}
}

func TestRestore_DiscardsChanges(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	writeFile(t, repoPath, "README.md", "# changed\n")
	runGit(t, repoPath, "add", "README.md")
	writeFile(t, repoPath, "README.md", "# changed again\n")

	if err := svc.Restore(ctx, repoPath, []string{"README.md"}); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(repoPath, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "# test\n" {
		t.Errorf("expected HEAD content restored, got %q", content)
	}

	st, err := svc.Status(ctx, repoPath, StatusOptions{})
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if st.Dirty() {
		t.Errorf("expected clean tree, got staged=%v unstaged=%v",
			bucketPaths(st.Staged), bucketPaths(st.Unstaged))
	}
}
