// Package cli implements the logvision command: run a child command and
// re-render everything it prints through an intercepted Console.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes for the logvision command. A child's non-zero exit code is
// passed through unchanged.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// ExitError carries a child process's exit code up to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("child exited with code %d", e.Code)
}

// NewRootCommand builds the logvision command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "logvision",
		Short: "Beautiful, structured, and developer-friendly logs",
		Long: `logvision runs a command and re-renders every line it prints as a
leveled, optionally colorized log line in pretty, minimal or json form.`,
		Version: version,
		// Usage is noise for child failures; errors are printed by execute.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "logvision version %s\n" .Version}}`)

	root.AddCommand(newRunCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute(version string) int {
	return execute(NewRootCommand(version), os.Args[1:])
}

func execute(root *cobra.Command, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return exitCode(root, err)
}

// exitCode maps a command error to a process exit code.
func exitCode(root *cobra.Command, err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	return ExitCodeError
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of logvision",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "logvision version %s\n", cmd.Root().Version)
		},
	}
}
