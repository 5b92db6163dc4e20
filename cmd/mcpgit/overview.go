package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/mcpgit/internal/output"
	"github.com/raphi011/mcpgit/internal/scan"
)

func newOverviewCmd() *cobra.Command {
	var maxRepos int

	cmd := &cobra.Command{
		Use:   "overview [dir]",
		Short: "Discover repositories under a directory and print a status summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := newValidator()
			if err != nil {
				return err
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			absRoot, err := validator.Repo(root)
			if err != nil {
				return err
			}

			rows, err := scan.Overview(cmd.Context(), gitSvc, absRoot, maxRepos)
			if err != nil {
				return err
			}
			return output.FromContext(cmd.Context()).JSON(rows)
		},
	}

	cmd.Flags().IntVar(&maxRepos, "max-repos", 100, "Stop discovery after this many repositories")
	return cmd
}
