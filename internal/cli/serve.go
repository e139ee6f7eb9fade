package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/backdesk/backdesk/internal/api"
	"github.com/backdesk/backdesk/internal/schema"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
	Seed   bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the backdesk HTTP API server.

The server opens the backing database file (loading it if present,
initializing the schema if not) and exposes CRUD endpoints per entity
under /api. Shuts down gracefully on SIGINT/SIGTERM.

Example:
  backdesk serve --db ./backdesk.db
  backdesk serve --config ./backdesk.yaml --listen :9090 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "insert demo rows when the database is empty")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.Verbose)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.Seed {
		cfg.Seed = true
	}

	logger.Info("opening database", "path", cfg.Database)
	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database ready")

	if cfg.Seed {
		n, err := seedDemoData(cmd.Context(), session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to seed demo data", err)
		}
		logger.Info("demo data seeded", "rows", n)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compile entity schemas", err)
	}

	server := api.New(logger, session, validator)
	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitCommandError, "server failed", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitCommandError, "shutdown failed", err)
		}
	}

	return nil
}
