package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/mcpgit/internal/log"
	"github.com/raphi011/mcpgit/internal/server"
	"github.com/raphi011/mcpgit/internal/tasks"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve git tools over stdio to an MCP client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.FromContext(cmd.Context())

			// The protocol runs over stdin/stdout; a human at a terminal
			// is almost certainly a misconfiguration.
			if isatty.IsTerminal(os.Stdin.Fd()) {
				logger.Println("mcpgit serve expects to be spawned by an MCP client; stdin is a terminal")
			}

			validator, err := newValidator()
			if err != nil {
				return err
			}

			tasksPath, err := cfg.TasksPath()
			if err != nil {
				return err
			}

			srv := server.New(version, *cfg, gitSvc, validator, tasks.NewStore(tasksPath))
			logger.Debug("serving", "roots", validator.Roots())
			return srv.ServeStdio()
		},
	}
}
