package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTaskTools() {
	s.mcp.AddTool(mcp.NewTool("task_add",
		mcp.WithDescription("Add an entry to the local task backlog"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short task title")),
		mcp.WithString("notes", mcp.Description("Free-form notes")),
	), s.handleTaskAdd)

	s.mcp.AddTool(mcp.NewTool("task_list",
		mcp.WithDescription("List backlog entries"),
		mcp.WithBoolean("include_done", mcp.Description("Include completed tasks")),
	), s.handleTaskList)

	s.mcp.AddTool(mcp.NewTool("task_done",
		mcp.WithDescription("Mark a backlog entry completed"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
	), s.handleTaskDone)

	s.mcp.AddTool(mcp.NewTool("task_remove",
		mcp.WithDescription("Delete a backlog entry"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
	), s.handleTaskRemove)
}

func (s *Server) handleTaskAdd(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return errResult(err), nil
	}
	task, err := s.store.Add(title, req.GetString("notes", ""))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(task), nil
}

func (s *Server) handleTaskList(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.store.List(req.GetBool("include_done", false))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(list), nil
}

func (s *Server) handleTaskDone(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return errResult(err), nil
	}
	task, err := s.store.Done(id)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(task), nil
}

func (s *Server) handleTaskRemove(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return errResult(err), nil
	}
	if err := s.store.Remove(id); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("removed"), nil
}
