// Package logx is a small terse logger used across the motion, modbus, and
// service layers. It favours a one-line "[component] message" shape over
// structured fields.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes timestamped, component-prefixed lines to an io.Writer.
// Safe for concurrent use from multiple goroutines.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	tag string
}

// New returns a Logger that writes to w, prefixing every line with tag.
// A nil w defaults to os.Stderr.
func New(w io.Writer, tag string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{out: w, tag: tag}
}

// With returns a child logger that appends subtag to this logger's tag.
func (l *Logger) With(subtag string) *Logger {
	tag := l.tag
	if tag != "" {
		tag += "." + subtag
	} else {
		tag = subtag
	}
	return &Logger{out: l.out, tag: tag}
}

func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.out, "%s [%s] %s\n", ts, l.tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Print(msg string) {
	l.Printf("%s", msg)
}
