package logvision

import (
	"fmt"
	"io"
	"maps"
	"os"
	"sync"
)

// EntryPoint names one slot of a Console.
type EntryPoint string

const (
	EntryLog   EntryPoint = "log"
	EntryInfo  EntryPoint = "info"
	EntryWarn  EntryPoint = "warn"
	EntryError EntryPoint = "error"
	EntryDebug EntryPoint = "debug"
)

// EntryPoints lists every Console slot in a fixed order.
var EntryPoints = []EntryPoint{EntryLog, EntryInfo, EntryWarn, EntryError, EntryDebug}

var entryLevels = map[EntryPoint]Level{
	EntryLog:   LevelInfo,
	EntryInfo:  LevelInfo,
	EntryWarn:  LevelWarn,
	EntryError: LevelError,
	EntryDebug: LevelDebug,
}

// Level returns the severity an entry point logs at.
func (e EntryPoint) Level() Level {
	if level, ok := entryLevels[e]; ok {
		return level
	}
	return LevelInfo
}

// EntryFunc is the implementation behind a Console slot.
type EntryFunc func(args ...any)

// Console is a table of replaceable logging entry points. Code that logs
// through a Console never holds on to the slot functions, so replacing a slot
// takes effect for every caller at once.
type Console struct {
	mu    sync.RWMutex
	funcs map[EntryPoint]EntryFunc
}

// NewConsole returns a Console whose log, info and debug slots print to
// stdout and whose warn and error slots print to stderr. Each call writes its
// arguments space-joined, followed by a newline.
func NewConsole(stdout, stderr io.Writer) *Console {
	c := &Console{funcs: make(map[EntryPoint]EntryFunc, len(EntryPoints))}
	c.funcs[EntryLog] = printer(stdout)
	c.funcs[EntryInfo] = printer(stdout)
	c.funcs[EntryDebug] = printer(stdout)
	c.funcs[EntryWarn] = printer(stderr)
	c.funcs[EntryError] = printer(stderr)
	return c
}

func printer(w io.Writer) EntryFunc {
	var mu sync.Mutex
	return func(args ...any) {
		line := JoinArgs(args)
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, line)
	}
}

// DefaultConsole is the process-wide Console behind the package-level Log,
// Info, Warn, Error and Debug functions.
var DefaultConsole = NewConsole(os.Stdout, os.Stderr)

// Get returns the current implementation of a slot, or nil for an unknown
// entry point.
func (c *Console) Get(e EntryPoint) EntryFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.funcs[e]
}

// Set installs fn as the implementation of a slot.
func (c *Console) Set(e EntryPoint, fn EntryFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs[e] = fn
}

// Snapshot copies the current slot table.
func (c *Console) Snapshot() map[EntryPoint]EntryFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.funcs)
}

func (c *Console) call(e EntryPoint, args []any) {
	if fn := c.Get(e); fn != nil {
		fn(args...)
	}
}

func (c *Console) Log(args ...any)   { c.call(EntryLog, args) }
func (c *Console) Info(args ...any)  { c.call(EntryInfo, args) }
func (c *Console) Warn(args ...any)  { c.call(EntryWarn, args) }
func (c *Console) Error(args ...any) { c.call(EntryError, args) }
func (c *Console) Debug(args ...any) { c.call(EntryDebug, args) }

func Log(args ...any)   { DefaultConsole.Log(args...) }
func Info(args ...any)  { DefaultConsole.Info(args...) }
func Warn(args ...any)  { DefaultConsole.Warn(args...) }
func Error(args ...any) { DefaultConsole.Error(args...) }
func Debug(args ...any) { DefaultConsole.Debug(args...) }
