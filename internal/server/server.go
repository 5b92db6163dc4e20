// Package server wires the git operations facade into an MCP server:
// tool definitions, argument decoding, and result marshalling. All real
// work happens in the internal/git and internal/scan packages.
package server

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/raphi011/mcpgit/internal/config"
	"github.com/raphi011/mcpgit/internal/git"
	"github.com/raphi011/mcpgit/internal/pathsafe"
	"github.com/raphi011/mcpgit/internal/tasks"
)

// Server bundles the dependencies the tool handlers close over.
type Server struct {
	mcp       *server.MCPServer
	git       *git.Service
	validator *pathsafe.Validator
	store     *tasks.Store
	cfg       config.Config
}

// New builds the MCP server with every tool registered.
func New(version string, cfg config.Config, svc *git.Service, validator *pathsafe.Validator, store *tasks.Store) *Server {
	s := &Server{
		mcp: server.NewMCPServer("mcpgit", version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		git:       svc,
		validator: validator,
		store:     store,
		cfg:       cfg,
	}
	s.registerGitTools()
	s.registerTaskTools()
	return s
}

// ServeStdio runs the server over stdin/stdout until the client closes the
// stream.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// jsonResult marshals a result object into a text tool result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

// errResult turns an operation failure into a tool error result. Handlers
// return protocol-level errors only for panics; operation failures are
// payload.
func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// repoPath validates and resolves the path argument common to all git
// tools.
func (s *Server) repoPath(req mcp.CallToolRequest) (string, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return "", err
	}
	return s.validator.Repo(path)
}
