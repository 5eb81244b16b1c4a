// Package main provides the mealguard CLI for checking meal orders against
// residents' dietary constraints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/sensitivedata"
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

// run executes the CLI with the given arguments and returns the exit code.
func run(ctx context.Context, args []string) int {
	cmd, g := newRootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.msg != "" {
			fmt.Fprintln(os.Stderr, exit.msg)
		}
		return exit.code
	}
	slog.Error("command failed", "error", sensitivedata.SafeError(err, g.secrets))
	return 1
}
