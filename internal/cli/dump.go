package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backdesk/backdesk/internal/store"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
}

// dumpTables lists the tables dump can print.
var dumpTables = []string{"users", "customers", "tasks"}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <table>",
		Short: "Print the rows of a table",
		Long: `Print every row of a table (users, customers, or tasks) in id order.

Example:
  backdesk dump users --db ./backdesk.db
  backdesk dump tasks --db ./backdesk.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	return cmd
}

func runDump(opts *DumpOptions, table string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if !isDumpTable(table) {
		return WrapExitError(ExitFailure,
			fmt.Sprintf("unknown table %q: must be one of %v", table, dumpTables), nil)
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	var rows any
	switch table {
	case "users":
		rows, err = session.ListUsers(ctx, store.ListOptions{})
	case "customers":
		rows, err = session.ListCustomers(ctx, store.ListOptions{})
	case "tasks":
		rows, err = session.ListTasks(ctx, store.ListOptions{})
	}
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", table), err)
	}

	if opts.Format == "json" {
		return out.Success(rows)
	}

	// Text format: one row per line.
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render rows", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func isDumpTable(table string) bool {
	for _, t := range dumpTables {
		if t == table {
			return true
		}
	}
	return false
}
