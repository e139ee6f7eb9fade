package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backdesk/backdesk/internal/model"
	"github.com/backdesk/backdesk/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo rows",
		Long: `Insert a small set of demo users, customers, and tasks.

Seeding is idempotent at the database level: a database that already has
users is left untouched.

Example:
  backdesk seed --db ./backdesk.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, cmd)
		},
	}

	return cmd
}

func runSeed(opts *SeedOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	n, err := seedDemoData(cmd.Context(), session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to seed demo data", err)
	}

	return out.Success(map[string]any{"rows": n})
}

// seedDemoData inserts the demo rows if the database has no users yet.
// Returns the number of rows inserted.
func seedDemoData(ctx context.Context, session *store.Session) (int, error) {
	existing, err := session.ListUsers(ctx, store.ListOptions{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	rows := 0

	users := []model.User{
		{Name: "Ada Lovelace", Email: "ada@backdesk.test", Role: "admin"},
		{Name: "Grace Hopper", Email: "grace@backdesk.test"},
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		created, err := session.CreateUser(ctx, u)
		if err != nil {
			return rows, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		ids = append(ids, created.ID)
		rows++
	}

	customers := []model.Customer{
		{Name: "Acme", Email: "office@acme.test", Company: "Acme Corp", Phone: "555-0100"},
		{Name: "Globex", Email: "hello@globex.test", Company: "Globex Inc"},
	}
	for _, c := range customers {
		if _, err := session.CreateCustomer(ctx, c); err != nil {
			return rows, fmt.Errorf("seed customer %s: %w", c.Email, err)
		}
		rows++
	}

	tasks := []model.Task{
		{UserID: ids[0], Title: "Review onboarding flow", DueDate: "2024-06-01"},
		{UserID: ids[0], Title: "File quarterly report", Done: true},
		{UserID: ids[1], Title: "Call Acme about renewal", DueDate: "2024-06-15"},
	}
	for _, task := range tasks {
		if _, err := session.CreateTask(ctx, task); err != nil {
			return rows, fmt.Errorf("seed task %q: %w", task.Title, err)
		}
		rows++
	}

	return rows, nil
}
