package logvision

import (
	"fmt"
	"sync"
	"time"
)

// entryFormatter is what an Interceptor needs from a Formatter.
type entryFormatter interface {
	Format(Entry) (string, error)
}

// Interceptor swaps the entry points of a Console for wrappers that render
// every call through a private Formatter, and puts the originals back on
// Restore.
//
// The originals are captured when the Interceptor is built. Only one
// Interceptor should be active against a Console at a time: a second one
// built while the first is active would capture the first one's wrappers.
type Interceptor struct {
	mu        sync.Mutex
	console   *Console
	formatter entryFormatter
	render    RenderConfig
	appName   string
	originals map[EntryPoint]EntryFunc
	active    bool
	now       func() time.Time

	stdlog *stdlogBridge
	logrus *logrusBridge
}

// InterceptorOption customizes an Interceptor.
type InterceptorOption func(*Interceptor)

// WithConsole targets c instead of DefaultConsole.
func WithConsole(c *Console) InterceptorOption {
	return func(i *Interceptor) { i.console = c }
}

// WithStdlog also routes the standard library's default logger through the
// log entry point while intercepting.
func WithStdlog() InterceptorOption {
	return func(i *Interceptor) { i.stdlog = &stdlogBridge{} }
}

// WithLogrus also renders the logrus standard logger with a LogrusFormatter
// and sends its lines to the captured log entry point while intercepting.
func WithLogrus() InterceptorOption {
	return func(i *Interceptor) { i.logrus = &logrusBridge{} }
}

// NewInterceptor captures the current entry points of the target Console.
// Only the rendering fields and AppName of opts are used.
func NewInterceptor(opts Options, options ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		console: DefaultConsole,
		render:  opts.RenderConfig(),
		appName: opts.AppName,
		now:     time.Now,
	}
	for _, o := range options {
		o(i)
	}
	i.formatter = NewFormatter(i.render)
	i.originals = i.console.Snapshot()
	return i
}

// Intercept installs the formatting wrappers. It is a no-op when already
// active.
func (i *Interceptor) Intercept() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active {
		return
	}

	for _, e := range EntryPoints {
		original := i.originals[e]
		if original == nil {
			continue
		}
		i.console.Set(e, i.wrap(e.Level(), original))
	}
	if i.stdlog != nil {
		i.stdlog.capture(i.console)
	}
	if i.logrus != nil {
		i.logrus.capture(NewLogrusFormatter(i.render, i.appName), i.originals[EntryLog])
	}
	i.active = true
}

// Restore reinstalls the entry points captured at construction. It is a
// no-op when not active.
func (i *Interceptor) Restore() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.active {
		return
	}

	for _, e := range EntryPoints {
		if original, ok := i.originals[e]; ok {
			i.console.Set(e, original)
		}
	}
	if i.stdlog != nil {
		i.stdlog.restore()
	}
	if i.logrus != nil {
		i.logrus.restore()
	}
	i.active = false
}

// Active reports whether the wrappers are installed.
func (i *Interceptor) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active
}

func (i *Interceptor) wrap(level Level, original EntryFunc) EntryFunc {
	return func(args ...any) {
		entry := Entry{
			Timestamp: i.now(),
			Level:     level,
			Message:   JoinArgs(args),
			AppName:   i.appName,
		}
		line, err := i.format(entry)
		if err != nil {
			original(args...)
			return
		}
		original(line)
	}
}

func (i *Interceptor) format(entry Entry) (line string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("formatter panicked: %v", r)
		}
	}()
	return i.formatter.Format(entry)
}
