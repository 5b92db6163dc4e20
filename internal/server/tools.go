package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raphi011/mcpgit/internal/git"
	"github.com/raphi011/mcpgit/internal/scan"
)

func (s *Server) registerGitTools() {
	pathArg := mcp.WithString("path", mcp.Required(),
		mcp.Description("Repository path, absolute or relative to an allowed root"))
	filesArg := mcp.WithArray("files",
		mcp.Description("Optional file list, relative to the repository root"),
		mcp.Items(map[string]any{"type": "string"}))

	s.mcp.AddTool(mcp.NewTool("git_status",
		mcp.WithDescription("Working tree status: staged, unstaged, untracked and conflicted files"),
		pathArg,
	), s.handleStatus)

	s.mcp.AddTool(mcp.NewTool("git_diff",
		mcp.WithDescription("Unstaged diff, or diff against a base reference when given"),
		pathArg,
		mcp.WithString("base", mcp.Description("Base reference (branch, tag or commit) to diff against")),
		filesArg,
	), s.handleDiff(false))

	s.mcp.AddTool(mcp.NewTool("git_diff_staged",
		mcp.WithDescription("Diff of staged changes against HEAD"),
		pathArg,
		filesArg,
	), s.handleDiff(true))

	s.mcp.AddTool(mcp.NewTool("git_stage",
		mcp.WithDescription("Stage changes; the whole tree when no files are given. Missing files are removed from the index"),
		pathArg,
		filesArg,
	), s.handleStage)

	s.mcp.AddTool(mcp.NewTool("git_unstage",
		mcp.WithDescription("Remove paths from the index, keeping worktree content"),
		pathArg,
		filesArg,
	), s.handleUnstage)

	s.mcp.AddTool(mcp.NewTool("git_restore",
		mcp.WithDescription("Discard changes, resetting index and worktree to HEAD. Destructive"),
		pathArg,
		filesArg,
	), s.handleRestore)

	s.mcp.AddTool(mcp.NewTool("git_commit",
		mcp.WithDescription("Commit staged changes"),
		pathArg,
		mcp.WithString("message", mcp.Required(), mcp.Description("Commit message")),
		mcp.WithString("author_name", mcp.Description("Transient author name for this commit only")),
		mcp.WithString("author_email", mcp.Description("Transient author email for this commit only")),
		mcp.WithBoolean("allow_empty", mcp.Description("Allow an empty commit")),
	), s.handleCommit)

	s.mcp.AddTool(mcp.NewTool("git_push",
		mcp.WithDescription("Push commits to a remote. A token enables one-shot HTTPS auth"),
		pathArg,
		mcp.WithString("remote", mcp.Description("Remote name; defaults to the configured/tracking remote")),
		mcp.WithString("branch", mcp.Description("Branch to push; requires remote")),
		mcp.WithBoolean("set_upstream", mcp.Description("Set the upstream tracking reference")),
		mcp.WithBoolean("force", mcp.Description("Force push (with lease)")),
		mcp.WithString("token", mcp.Description("Short-lived access token for HTTPS remotes; never stored")),
	), s.handlePush)

	s.mcp.AddTool(mcp.NewTool("git_pull",
		mcp.WithDescription("Pull from a remote. Fast-forward-only unless mode is rebase or merge"),
		pathArg,
		mcp.WithString("remote", mcp.Description("Remote name")),
		mcp.WithString("branch", mcp.Description("Branch to pull; requires remote")),
		mcp.WithString("mode", mcp.Description("Divergence strategy: ff-only (default), rebase, or merge"),
			mcp.Enum("ff-only", "rebase", "merge")),
		mcp.WithString("token", mcp.Description("Short-lived access token for HTTPS remotes; never stored")),
	), s.handlePull)

	s.mcp.AddTool(mcp.NewTool("git_stash",
		mcp.WithDescription("Stash local changes, untracked files included. Reports whether an entry was created"),
		pathArg,
		mcp.WithString("message", mcp.Description("Stash message")),
	), s.handleStash)

	s.mcp.AddTool(mcp.NewTool("git_stash_list",
		mcp.WithDescription("List stash entries"),
		pathArg,
	), s.handleStashList)

	s.mcp.AddTool(mcp.NewTool("git_stash_pop",
		mcp.WithDescription("Apply and drop a stash entry; reports conflicts"),
		pathArg,
		mcp.WithString("ref", mcp.Description("Stash reference such as stash@{0}; defaults to the newest entry")),
	), s.handleStashPop)

	s.mcp.AddTool(mcp.NewTool("git_conflicts",
		mcp.WithDescription("List paths with unresolved merge conflicts"),
		pathArg,
	), s.handleConflicts)

	s.mcp.AddTool(mcp.NewTool("git_conflict_versions",
		mcp.WithDescription("Base/ours/theirs content of a conflicted file"),
		pathArg,
		mcp.WithString("file", mcp.Required(), mcp.Description("Conflicted file, relative to the repository root")),
	), s.handleConflictVersions)

	s.mcp.AddTool(mcp.NewTool("git_branch",
		mcp.WithDescription("Current branch with upstream tracking info"),
		pathArg,
	), s.handleBranch)

	s.mcp.AddTool(mcp.NewTool("git_log",
		mcp.WithDescription("Recent commits, newest first"),
		pathArg,
		mcp.WithNumber("limit", mcp.Description("Maximum commits to return (default 10)")),
	), s.handleLog)

	s.mcp.AddTool(mcp.NewTool("git_repo_overview",
		mcp.WithDescription("Discover repositories under a directory and summarize each one's status"),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Scan root, absolute or relative to an allowed root")),
		mcp.WithNumber("max_repos", mcp.Description("Stop discovery after this many repositories")),
	), s.handleOverview)
}

func (s *Server) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	st, err := s.git.Status(ctx, dir, git.StatusOptions{})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(st), nil
}

func (s *Server) handleDiff(staged bool) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dir, err := s.repoPath(req)
		if err != nil {
			return errResult(err), nil
		}
		files, err := s.fileArgs(req)
		if err != nil {
			return errResult(err), nil
		}
		patch, err := s.git.Diff(ctx, dir, git.DiffOptions{
			Staged: staged,
			Base:   req.GetString("base", ""),
			Files:  files,
		})
		if err != nil {
			return errResult(err), nil
		}
		return mcp.NewToolResultText(patch), nil
	}
}

func (s *Server) handleStage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	files, err := s.fileArgs(req)
	if err != nil {
		return errResult(err), nil
	}
	res, err := s.git.Stage(ctx, dir, files)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handleUnstage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	files, err := s.fileArgs(req)
	if err != nil {
		return errResult(err), nil
	}
	if err := s.git.Unstage(ctx, dir, files); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("unstaged"), nil
}

func (s *Server) handleRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	files, err := s.fileArgs(req)
	if err != nil {
		return errResult(err), nil
	}
	if err := s.git.Restore(ctx, dir, files); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("restored"), nil
}

func (s *Server) handleCommit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	message, err := req.RequireString("message")
	if err != nil {
		return errResult(err), nil
	}
	res, err := s.git.Commit(ctx, dir, git.CommitOptions{
		Message: message,
		Identity: git.Identity{
			Name:  req.GetString("author_name", ""),
			Email: req.GetString("author_email", ""),
		},
		AllowEmpty: req.GetBool("allow_empty", false),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handlePush(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	res, err := s.git.Push(ctx, dir, git.PushOptions{
		Remote:      req.GetString("remote", ""),
		Branch:      req.GetString("branch", ""),
		SetUpstream: req.GetBool("set_upstream", false),
		Force:       req.GetBool("force", false),
		Token:       req.GetString("token", ""),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handlePull(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	res, err := s.git.Pull(ctx, dir, git.PullOptions{
		Remote: req.GetString("remote", ""),
		Branch: req.GetString("branch", ""),
		Mode:   git.PullMode(req.GetString("mode", "")),
		Token:  req.GetString("token", ""),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handleStash(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	res, err := s.git.Stash(ctx, dir, req.GetString("message", ""))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handleStashList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	entries, err := s.git.StashList(ctx, dir)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(entries), nil
}

func (s *Server) handleStashPop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	res, err := s.git.StashPop(ctx, dir, req.GetString("ref", ""))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handleConflicts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	paths, err := s.git.Conflicts(ctx, dir)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(paths), nil
}

func (s *Server) handleConflictVersions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	file, err := req.RequireString("file")
	if err != nil {
		return errResult(err), nil
	}
	if err := s.validator.Files([]string{file}); err != nil {
		return errResult(err), nil
	}
	res, err := s.git.ConflictVersions(ctx, dir, file)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handleBranch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	info, err := s.git.Branch(ctx, dir)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(info), nil
}

func (s *Server) handleLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	commits, err := s.git.Log(ctx, dir, req.GetInt("limit", 10))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(commits), nil
}

func (s *Server) handleOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := s.repoPath(req)
	if err != nil {
		return errResult(err), nil
	}
	maxRepos := req.GetInt("max_repos", s.cfg.Scan.MaxRepos)
	rows, err := scan.Overview(ctx, s.git, root, maxRepos)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(rows), nil
}

// fileArgs decodes and validates the optional files argument.
func (s *Server) fileArgs(req mcp.CallToolRequest) ([]string, error) {
	files := req.GetStringSlice("files", nil)
	if len(files) == 0 {
		return nil, nil
	}
	if err := s.validator.Files(files); err != nil {
		return nil, err
	}
	return files, nil
}
