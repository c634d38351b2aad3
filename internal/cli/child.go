package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fenthope/logvision"
)

const maxLineBytes = 1024 * 1024

// childWaitDelay bounds how long a cancelled child may keep its output pipes
// open after being interrupted.
var childWaitDelay = 5 * time.Second

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// runChild runs command through the shell, feeding its stdout lines to the
// console's log entry point and its stderr lines to the error entry point.
// A command that ran and failed is reported through the exit code, not the
// error.
func runChild(ctx context.Context, command string, console *logvision.Console) (int, error) {
	cmd := shellCommand(ctx, command)
	cmd.Stdin = os.Stdin
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = childWaitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to attach stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to attach stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start '%s': %w", command, err)
	}

	// Both streams share one console, so emission is serialized.
	var mu sync.Mutex
	var g errgroup.Group
	g.Go(func() error { return pumpLines(stdout, &mu, console.Log) })
	g.Go(func() error { return pumpLines(stderr, &mu, console.Error) })
	pumpErr := g.Wait()

	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		if code := exitErr.ExitCode(); code > 0 {
			return code, nil
		}
		return ExitCodeError, nil
	case errors.Is(waitErr, exec.ErrWaitDelay):
		// Exited cleanly, but something it spawned held the pipes open.
		return ExitCodeSuccess, nil
	case waitErr != nil:
		return 0, fmt.Errorf("failed to wait for '%s': %w", command, waitErr)
	case pumpErr != nil:
		return 0, pumpErr
	}
	return ExitCodeSuccess, nil
}

// pumpLines calls emit once per line read from r. Anything left after a
// read error is drained so the child never blocks on a full pipe.
func pumpLines(r io.Reader, mu *sync.Mutex, emit func(args ...any)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		mu.Lock()
		emit(line)
		mu.Unlock()
	}
	err := sc.Err()
	if err == nil || errors.Is(err, os.ErrClosed) {
		return nil
	}
	_, _ = io.Copy(io.Discard, r)
	return fmt.Errorf("failed to read child output: %w", err)
}
