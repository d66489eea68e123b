// Package cli provides the command-line interface for tdb.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/tdb/internal/cli/config"
	"github.com/leapstack-labs/tdb/internal/engine"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Options carry what the command tree needs beyond the loaded config.
type Options struct {
	Logger      *slog.Logger
	Credentials config.Credentials
	// NewAdapter overrides adapter construction. Nil uses the adapter registry.
	NewAdapter engine.AdapterFactory
}

// NewRootCmd creates the root command with one subcommand per configured server.
func NewRootCmd(cfg *config.Config, opts Options) *cobra.Command {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rootCmd := &cobra.Command{
		Use:   "tdb",
		Short: "tdb - query SQL Server databases by server name",
		Long: `tdb runs one statement against a SQL Server instance named in tdb.toml
and prints each result row as a field/value table.

Every configured server is a subcommand:

  tdb <SERVER> DATABASE OPERATION TABLE [flags]

Log verbosity follows TDB_LOG (error, warn, info, debug, trace) unless
--info or --trace is given.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s, built %s)\n", GitCommit, BuildDate))

	// Parsed ahead of the tree by config.LoadSettings; bound here for help
	// output and so cobra accepts them anywhere on the line.
	config.BindGlobalFlags(rootCmd.PersistentFlags())

	servers := newServerRunner(cfg, opts)
	for _, entry := range cfg.Servers.Entries() {
		rootCmd.AddCommand(newServerCommand(entry, servers))
	}
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute loads settings and config for args and runs the command tree.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdout, os.Stderr, nil)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, newAdapter engine.AdapterFactory) error {
	err := run(ctx, args, stdout, stderr, newAdapter)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, newAdapter engine.AdapterFactory) error {
	settings, err := config.LoadSettings(args)
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	logger := config.NewLogger(stderr, level)
	logger.Log(ctx, config.LevelTrace, "starting",
		slog.String("args", strings.Join(args, " ")),
		slog.String("config", settings.ConfigPath),
		slog.String("level", level.String()))

	cfg, err := config.Load(settings.ConfigPath, logger)
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials(settings.ConfigPath)
	if err != nil {
		return err
	}

	rootCmd := NewRootCmd(cfg, Options{
		Logger:      logger,
		Credentials: creds,
		NewAdapter:  newAdapter,
	})
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	return rootCmd.ExecuteContext(ctx)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tdb.

Server names, operations and output formats complete from the loaded config.

Bash:
  $ source <(tdb completion bash)

Zsh:
  $ tdb completion zsh > "${fpath[1]}/_tdb"

Fish:
  $ tdb completion fish | source

PowerShell:
  PS> tdb completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
