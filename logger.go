package logvision

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is a structured logger with a minimum severity. It owns one
// Formatter, built from its Options at construction.
type Logger struct {
	config    Options
	formatter entryFormatter
	mu        sync.Mutex
	writer    io.Writer
	diag      io.Writer
	now       func() time.Time
}

// NewLogger creates a Logger. Zero fields of opts take their defaults.
func NewLogger(opts Options) *Logger {
	applyDefaults(&opts)
	return &Logger{
		config:    opts,
		formatter: NewFormatter(opts.RenderConfig()),
		writer:    opts.Output,
		diag:      os.Stderr,
		now:       time.Now,
	}
}

// Level returns the minimum severity the logger emits.
func (l *Logger) Level() Level {
	return l.config.Level
}

// Enabled reports whether a record at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.config.Level
}

// Options returns the resolved options the logger was built with.
func (l *Logger) Options() Options {
	return l.config
}

func (l *Logger) submitEntry(level Level, message string, context Fields) {
	entry := Entry{
		Timestamp: l.now(),
		Level:     level,
		Message:   message,
		Context:   context,
		AppName:   l.config.AppName,
	}
	l.performWrite(entry)
}

func (l *Logger) performWrite(entry Entry) {
	line, err := l.format(entry)
	if err != nil {
		fmt.Fprintf(l.diag, "Logger: failed to format log entry: %v\n", err)
		line = fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.writer, line+"\n"); err != nil {
		fmt.Fprintf(l.diag, "Logger: failed to write log entry: %v\n", err)
	}
}

func (l *Logger) format(entry Entry) (line string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("formatter panicked: %v", r)
		}
	}()
	return l.formatter.Format(entry)
}
