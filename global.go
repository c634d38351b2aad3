package logvision

import "sync"

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.Mutex
)

// Default returns the process-wide Logger, creating it from DefaultOptions on
// first use.
func Default() *Logger {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(Options{})
	}
	return defaultLogger
}

// SetDefault replaces the process-wide Logger. A nil l resets it so the next
// Default call builds a fresh one.
func SetDefault(l *Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}
