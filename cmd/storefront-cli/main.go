// Command storefront-cli is the command-line front end of the storefront
// client: catalog browsing and editing, genres, and basket management.
//
// Configuration comes from flags, STOREFRONT_* environment variables and
// ~/.storefront/config.yaml. Exit codes: 1 operation failed, 2 usage or
// validation error, 3 backend unreachable.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/commands"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := commands.NewRootCommand(
		commands.WithVersion(fmt.Sprintf("%s (commit %s, built %s)", version, gitCommit, buildTime)),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Handle structured CLI errors with exit codes
		var cliErr *errors.CLIError
		if stderrors.As(err, &cliErr) {
			fmt.Fprintf(os.Stderr, "%v\n", cliErr)
			stop()
			os.Exit(cliErr.ExitCode)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
