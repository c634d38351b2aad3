package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fenthope/logvision"
)

func newRunCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Run a command with beautiful logging",
		Long: `Run a command through the shell and re-render its output.

Lines the command writes to stdout are logged at INFO, lines written to
stderr at ERROR. logvision exits with the command's exit code.`,
		Example: `  logvision run "npm start"
  logvision run -m json -- go run ./cmd/server`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			s := newSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
			return s.start(cmd.Context(), "Running", strings.Join(args, " "), runChild)
		},
	}
	flags.register(cmd)
	return cmd
}

func newWatchCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "watch <script>",
		Short: "Run a script with beautiful logging",
		Long: `Run a script through the shell and re-render its output, restarting it
whenever the script file changes. logvision exits when the script exits on
its own, with the script's exit code.`,
		Example: `  logvision watch "node server.js"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			s := newSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
			return s.start(cmd.Context(), "Watching", strings.Join(args, " "), s.watchChild)
		},
	}
	flags.register(cmd)
	return cmd
}

// childRunner runs command to completion and returns its exit code.
type childRunner func(ctx context.Context, command string, console *logvision.Console) (int, error)

// session ties one intercepted Console to one child workload.
type session struct {
	opts        logvision.Options
	console     *logvision.Console
	interceptor *logvision.Interceptor
	diag        *logvision.Logger
}

func newSession(stdout, stderr io.Writer, opts logvision.Options) *session {
	console := logvision.NewConsole(stdout, stderr)
	return &session{
		opts:        opts,
		console:     console,
		interceptor: logvision.NewInterceptor(opts, logvision.WithConsole(console)),
		diag: logvision.NewLogger(logvision.Options{
			AppName:      "logvision",
			Mode:         logvision.ModeMinimal,
			EnableColors: opts.EnableColors,
			Output:       stderr,
		}),
	}
}

// start announces the workload, intercepts, runs it and restores, whatever
// the outcome.
func (s *session) start(ctx context.Context, verb, command string, run childRunner) error {
	mode := s.opts.Mode.String()
	s.console.Log(fmt.Sprintf("📝 LogVision: %s %s with %s mode", verb, command, mode))

	s.interceptor.Intercept()
	defer s.interceptor.Restore()

	code, err := run(ctx, command, s.console)
	if err != nil {
		return err
	}
	if code != ExitCodeSuccess {
		return &ExitError{Code: code}
	}
	return nil
}
