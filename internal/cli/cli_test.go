package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenthope/logvision"
)

// syncBuffer is a bytes.Buffer safe to read while a child is writing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive children through sh")
	}
}

func plainOptions() logvision.Options {
	return logvision.Options{Mode: logvision.ModeMinimal, EnableColors: logvision.Bool(false)}
}

func runRoot(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	code = execute(root, args)
	return out.String(), errOut.String(), code
}

func TestRunCommand(t *testing.T) {
	requireShell(t)
	stdout, stderr, code := runRoot(t, "run", "--mode", "minimal", "--no-colors", "echo hi; echo oops 1>&2")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "📝 LogVision: Running echo hi; echo oops 1>&2 with minimal mode\n[INFO] hi\n", stdout)
	assert.Equal(t, "[ERROR] oops\n", stderr)
}

func TestRunCommandJoinsArgs(t *testing.T) {
	requireShell(t)
	stdout, _, code := runRoot(t, "run", "-m", "minimal", "--no-colors", "--", "echo", "a", "b")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "[INFO] a b\n")
}

func TestRunCommandPassesExitCode(t *testing.T) {
	requireShell(t)
	_, stderr, code := runRoot(t, "run", "exit 3")

	assert.Equal(t, 3, code)
	assert.Empty(t, stderr)
}

func TestRunCommandRejectsBadMode(t *testing.T) {
	_, stderr, code := runRoot(t, "run", "--mode", "xml", "true")

	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, "invalid --mode")
}

func TestRunCommandRequiresArgs(t *testing.T) {
	_, stderr, code := runRoot(t, "run")

	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, "requires at least 1 arg")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, code := runRoot(t, "version")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "logvision version test\n", stdout)
}

func TestRunChild(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	console := logvision.NewConsole(&stdout, &stderr)

	code, err := runChild(context.Background(), "printf 'one\\r\\ntwo\\n'; echo bad >&2; exit 7", console)

	require.NoError(t, err)
	assert.Equal(t, 7, code)
	assert.Equal(t, "one\ntwo\n", stdout.String())
	assert.Equal(t, "bad\n", stderr.String())
}

func TestRunChildCancelled(t *testing.T) {
	requireShell(t)
	prev := childWaitDelay
	childWaitDelay = 200 * time.Millisecond
	t.Cleanup(func() { childWaitDelay = prev })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	console := logvision.NewConsole(&bytes.Buffer{}, &bytes.Buffer{})

	start := time.Now()
	code, err := runChild(ctx, "exec sleep 10", console)

	require.NoError(t, err)
	assert.NotEqual(t, ExitCodeSuccess, code)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSessionInterceptsAndRestores(t *testing.T) {
	var stdout, stderr bytes.Buffer
	s := newSession(&stdout, &stderr, plainOptions())

	err := s.start(context.Background(), "Running", "fake", func(_ context.Context, _ string, c *logvision.Console) (int, error) {
		c.Log("inside")
		return 4, nil
	})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 4, exitErr.Code)
	assert.False(t, s.interceptor.Active())

	s.console.Log("after")
	assert.Equal(t, "📝 LogVision: Running fake with minimal mode\n[INFO] inside\nafter\n", stdout.String())
}

func TestWatchRestartsOnChange(t *testing.T) {
	requireShell(t)
	prevDelay := childWaitDelay
	childWaitDelay = 500 * time.Millisecond
	t.Cleanup(func() { childWaitDelay = prevDelay })

	dir := t.TempDir()
	script := filepath.Join(dir, "app.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo v1\nexec sleep 5\n"), 0o644))

	var stdout, stderr syncBuffer
	s := newSession(&stdout, &stderr, plainOptions())
	s.interceptor.Intercept()
	defer s.interceptor.Restore()

	type result struct {
		code int
		err  error
	}
	results := make(chan result, 1)
	go func() {
		code, err := s.watchChild(context.Background(), "sh "+script, s.console)
		results <- result{code, err}
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "[INFO] v1")
	}, 5*time.Second, 20*time.Millisecond)

	// Replace the script atomically so the restarted child never sees a
	// half-written file.
	tmp := filepath.Join(dir, "app.sh.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("echo v2\nexit 4\n"), 0o644))
	require.NoError(t, os.Rename(tmp, script))

	select {
	case res := <-results:
		require.NoError(t, res.err)
		assert.Equal(t, 4, res.code)
	case <-time.After(15 * time.Second):
		t.Fatal("watch did not return after the restarted script exited")
	}
	assert.Contains(t, stdout.String(), "[INFO] v2")
	assert.Contains(t, stderr.String(), "script changed, restarting")
}

func TestWatchWithoutScriptRunsOnce(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	s := newSession(&stdout, &stderr, plainOptions())

	code, err := s.watchChild(context.Background(), "echo plain", s.console)

	require.NoError(t, err)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "plain\n", stdout.String())
	assert.Contains(t, stderr.String(), "no script file in command")
}

func TestScriptPath(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "server.js")
	require.NoError(t, os.WriteFile(script, nil, 0o644))

	assert.Equal(t, script, scriptPath("node "+script+" --port 80"))
	assert.Equal(t, "", scriptPath("node "+dir))
	assert.Equal(t, "", scriptPath("echo hello"))
}

func TestRenderFlagsPrecedence(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "logvision.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("appName: file\noutputMode: json\nlevel: debug\n"), 0o644))
	t.Setenv("LOGVISION_APP_NAME", "env")
	t.Setenv("NO_COLOR", "")

	cmd := &cobra.Command{}
	var f renderFlags
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfg, "-m", "minimal", "--no-colors", "--date-format", "HH:mm"}))

	opts, err := f.options(cmd)
	require.NoError(t, err)
	assert.Equal(t, "env", opts.AppName)
	assert.Equal(t, logvision.ModeMinimal, opts.Mode)
	assert.Equal(t, logvision.LevelDebug, opts.Level)
	require.NotNil(t, opts.EnableColors)
	assert.False(t, *opts.EnableColors)
	assert.Equal(t, "HH:mm", opts.DateFormat)
}

func TestRenderFlagsDefaultsLeaveOptionsUnset(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	cmd := &cobra.Command{}
	var f renderFlags
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(nil))

	opts, err := f.options(cmd)
	require.NoError(t, err)
	assert.Equal(t, logvision.ModePretty, opts.Mode)
	assert.Nil(t, opts.EnableColors)
	assert.Empty(t, opts.DateFormat)
}

func TestRenderFlagsBadConfig(t *testing.T) {
	cmd := &cobra.Command{}
	var f renderFlags
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))

	_, err := f.options(cmd)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
