package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or verify the backing database file",
		Long: `Create the backing database file with an empty schema, or verify that
an existing file loads cleanly.

A missing file is created; an existing healthy file is left unchanged; a
corrupt file is reported as an error and never overwritten.

Example:
  backdesk init --db ./backdesk.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	_, statErr := os.Stat(cfg.Database)
	existed := statErr == nil

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	if existed {
		return out.Success(map[string]any{"path": cfg.Database, "created": false})
	}

	// Fresh database: export eagerly so the file exists before the first
	// mutation.
	if err := session.Export(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write backing file", err)
	}
	return out.Success(map[string]any{"path": cfg.Database, "created": true})
}
