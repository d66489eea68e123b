package cli

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/tdb/internal/cli/config"
	"github.com/leapstack-labs/tdb/internal/dbname"
	"github.com/leapstack-labs/tdb/internal/engine"
	"github.com/leapstack-labs/tdb/internal/query"
	"github.com/leapstack-labs/tdb/internal/registry"
	"github.com/leapstack-labs/tdb/internal/render"
	"github.com/leapstack-labs/tdb/pkg/core"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Server subcommand flag names.
const (
	flagWhere   = "where"
	flagSet     = "set"
	flagValues  = "values"
	flagGroupBy = "group-by"
	flagOrderBy = "order-by"
	flagFormat  = "format"
	flagTimeout = "timeout"
)

// serverRunner builds an engine per invocation so output and logger follow
// the executing command.
type serverRunner struct {
	cfg  *config.Config
	opts Options
}

func newServerRunner(cfg *config.Config, opts Options) *serverRunner {
	return &serverRunner{cfg: cfg, opts: opts}
}

func (r *serverRunner) engine(cmd *cobra.Command) *engine.Engine {
	return engine.New(engine.Config{
		Servers:    r.cfg.Servers,
		Username:   r.opts.Credentials.Username,
		Password:   r.opts.Credentials.Password,
		NewAdapter: r.opts.NewAdapter,
		Out:        cmd.OutOrStdout(),
		Logger:     config.GetLogger(cmd.Context()),
	})
}

// newServerCommand creates the subcommand for one configured server. Every
// server gets the same arguments and flags.
func newServerCommand(entry registry.ServerEntry, runner *serverRunner) *cobra.Command {
	var (
		format  string
		timeout uint
	)

	cmd := &cobra.Command{
		Use:   entry.Name + " DATABASE OPERATION TABLE",
		Short: entry.Addr(),
		Long: fmt.Sprintf(`Run one statement against %s.

DATABASE is a database name, or a code of three letters and two digits that
expands to %s<CODE>.

OPERATION is one of s, select, i, insert, u, update (any case). Only select
is implemented; a select returns at most %d rows.

Clause flags are inserted into the statement verbatim.`, entry.Addr(), dbname.CodePrefix, query.RowLimit),
		Example: fmt.Sprintf(`  tdb %[1]s DBA01 s Customers
  tdb %[1]s reporting select Orders -w "Total > 100" -o "OrderDate DESC"
  tdb %[1]s DBA01 s Customers -f csv`, entry.Name),
		Args:              cobra.MatchAll(cobra.ExactArgs(3), validOperation),
		ValidArgsFunction: completeServerArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := query.ParseOperation(args[1])
			if err != nil {
				return err
			}

			outFormat, err := render.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w: %w", core.ErrInvalidArgument, err)
			}

			return runner.engine(cmd).Run(cmd.Context(), engine.Request{
				Server:    entry.Name,
				Database:  args[0],
				Operation: op,
				Table:     args[2],
				Clauses:   clauseSet(cmd.Flags()),
				Format:    outFormat,
				Timeout:   time.Duration(timeout) * time.Second,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringP(flagWhere, "w", "", "WHERE clause fragment")
	flags.StringP(flagSet, "s", "", "SET clause fragment (update only)")
	flags.StringP(flagValues, "v", "", "VALUES clause fragment (insert only)")
	flags.StringP(flagGroupBy, "g", "", "GROUP BY clause fragment")
	flags.StringP(flagOrderBy, "o", "", "ORDER BY clause fragment")
	flags.StringVarP(&format, flagFormat, "f", string(render.FormatTable), "output format (table|json|csv|markdown)")
	flags.UintVar(&timeout, flagTimeout, 0, "execution timeout in seconds (0 waits indefinitely)")

	_ = cmd.RegisterFlagCompletionFunc(flagFormat, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return render.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// validOperation rejects an unknown OPERATION before anything runs.
func validOperation(_ *cobra.Command, args []string) error {
	if len(args) < 2 {
		return nil
	}
	_, err := query.ParseOperation(args[1])
	return err
}

func completeServerArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 {
		return query.OperationTokens, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// clauseSet collects the clause flags the user passed. A flag given with an
// empty value is still present.
func clauseSet(fs *pflag.FlagSet) query.ClauseSet {
	return query.ClauseSet{
		Where:   changedString(fs, flagWhere),
		Set:     changedString(fs, flagSet),
		Values:  changedString(fs, flagValues),
		GroupBy: changedString(fs, flagGroupBy),
		OrderBy: changedString(fs, flagOrderBy),
	}
}

func changedString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}
