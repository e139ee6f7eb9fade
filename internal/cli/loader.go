package cli

import (
	"log/slog"
	"os"

	"github.com/backdesk/backdesk/internal/config"
	"github.com/backdesk/backdesk/internal/store"
)

// loadConfig resolves the effective configuration: YAML file (if given),
// BACKDESK_DB environment override, then the --db flag on top.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	return cfg, nil
}

// openSession opens the store session for the configured backing file.
func openSession(cfg config.Config) (*store.Session, error) {
	session, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return session, nil
}

// newLogger builds the slog logger used by all commands.
// Verbose switches the level to debug.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
