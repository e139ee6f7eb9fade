// Command backdesk runs the snapshot-persisted CRUD service and its
// maintenance subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/backdesk/backdesk/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
