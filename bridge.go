package logvision

import (
	"io"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

// stdlogBridge points the standard library's default logger at a Console's
// log entry point and remembers what it replaced.
type stdlogBridge struct {
	writer io.Writer
	flags  int
	prefix string
}

func (b *stdlogBridge) capture(c *Console) {
	b.writer = log.Writer()
	b.flags = log.Flags()
	b.prefix = log.Prefix()

	// Timestamps and prefixes are the formatter's job now.
	log.SetFlags(0)
	log.SetPrefix("")
	log.SetOutput(lineWriter{emit: func(args ...any) { c.call(EntryLog, args) }})
}

func (b *stdlogBridge) restore() {
	log.SetOutput(b.writer)
	log.SetFlags(b.flags)
	log.SetPrefix(b.prefix)
}

// lineWriter turns each Write into one call of emit, without the trailing
// newline.
type lineWriter struct {
	emit EntryFunc
}

func (w lineWriter) Write(p []byte) (int, error) {
	w.emit(strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}

// logrusBridge swaps the formatter and output of the logrus standard logger.
// Lines are already rendered by the formatter, so they go straight to the
// captured log entry point rather than through a wrapper.
type logrusBridge struct {
	formatter logrus.Formatter
	out       io.Writer
}

func (b *logrusBridge) capture(f logrus.Formatter, emit EntryFunc) {
	std := logrus.StandardLogger()
	b.formatter = std.Formatter
	b.out = std.Out
	std.SetFormatter(f)
	if emit != nil {
		std.SetOutput(lineWriter{emit: emit})
	}
}

func (b *logrusBridge) restore() {
	std := logrus.StandardLogger()
	std.SetFormatter(b.formatter)
	std.SetOutput(b.out)
}
