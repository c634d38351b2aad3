package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fenthope/logvision"
)

// restartDebounce is the quiet period after the last change event before the
// child is restarted. Editors and atomic saves emit bursts of events.
var restartDebounce = 150 * time.Millisecond

type childResult struct {
	code int
	err  error
}

// watchChild runs command and restarts it whenever its script file changes.
// It returns once the child exits on its own. The script is the first word of
// command that names a regular file; without one, command simply runs once.
func (s *session) watchChild(ctx context.Context, command string, console *logvision.Console) (int, error) {
	script := scriptPath(command)
	if script == "" {
		s.diag.Warn("no script file in command, changes will not restart it", logvision.Fields{"command": command})
		return runChild(ctx, command, console)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return 0, fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	// The directory, not the file: atomic saves replace the file's inode.
	if err := watcher.Add(filepath.Dir(script)); err != nil {
		return 0, fmt.Errorf("failed to watch '%s': %w", script, err)
	}

	for {
		childCtx, cancel := context.WithCancel(ctx)
		done := make(chan childResult, 1)
		go func() {
			code, err := runChild(childCtx, command, console)
			done <- childResult{code: code, err: err}
		}()

		res, changed := s.waitForChange(watcher, script, done)
		cancel()
		if !changed {
			return res.code, res.err
		}
		<-done
		s.diag.Info("script changed, restarting", logvision.Fields{"script": script})
	}
}

// waitForChange blocks until the child finishes or the script changes.
func (s *session) waitForChange(w *fsnotify.Watcher, script string, done <-chan childResult) (childResult, bool) {
	events, errs := w.Events, w.Errors
	var debounce <-chan time.Time
	for {
		select {
		case res := <-done:
			return res, false
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if isScriptChange(ev, script) {
				debounce = time.After(restartDebounce)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.diag.Warn("file watcher error", logvision.Fields{"error": err})
		case <-debounce:
			return childResult{}, true
		}
	}
}

func isScriptChange(ev fsnotify.Event, script string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == script
}

// scriptPath returns the absolute path of the first word of command that
// names a regular file, or "".
func scriptPath(command string) string {
	for _, word := range strings.Fields(command) {
		info, err := os.Stat(word)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		abs, err := filepath.Abs(word)
		if err != nil {
			continue
		}
		return abs
	}
	return ""
}
