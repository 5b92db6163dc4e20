package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/mcpgit/internal/config"
	"github.com/raphi011/mcpgit/internal/git"
	"github.com/raphi011/mcpgit/internal/log"
	"github.com/raphi011/mcpgit/internal/output"
	"github.com/raphi011/mcpgit/internal/pathsafe"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg      *config.Config
	gitSvc   *git.Service
	resolver *git.Resolver
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcpgit",
	Short: "MCP server exposing git operations as tools",
	Long: `mcpgit exposes version-control operations (status, diff, staging,
commit, push/pull, stash, conflict inspection, multi-repository overview)
to MCP tool-calling clients by orchestrating the git CLI.

Run 'mcpgit serve' under an MCP client, or use the subcommands directly.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// newValidator builds the path validator from config, defaulting to the
// working directory when no roots are configured.
func newValidator() (*pathsafe.Validator, error) {
	roots := cfg.AllowedRoots
	if len(roots) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		roots = []string{wd}
	}
	return pathsafe.New(roots)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	resolver = git.NewResolver()
	if cfg.GitPath != "" && os.Getenv(git.EnvGitPath) == "" {
		resolver = resolver.WithOverride(cfg.GitPath)
	}

	timeouts := git.DefaultTimeouts()
	timeouts.Fast = cfg.FastTimeout(timeouts.Fast)
	timeouts.Op = cfg.OpTimeout(timeouts.Op)
	timeouts.Network = cfg.NetworkTimeout(timeouts.Network)
	gitSvc = git.NewService(resolver).WithTimeouts(timeouts)

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create logger (stderr for diagnostics)
	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newOverviewCmd())
}
