package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes component-tagged lines to stderr. Debug and Info are only
// emitted in verbose mode; Warn and Error are always shown.
type Logger struct {
	component string
	verbose   func() bool
	out       *output
}

// output is shared between a logger and the loggers derived from it
type output struct {
	mu sync.Mutex
	w  io.Writer
}

// Field is a key-value pair appended to a log line
type Field struct {
	Key   string
	Value any
}

// New creates a logger for component; verbose is consulted on every call
// so the flag can change after construction.
func New(component string, verbose func() bool) *Logger {
	return &Logger{
		component: component,
		verbose:   verbose,
		out:       &output{w: os.Stderr},
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return &Logger{out: &output{w: io.Discard}}
}

// With derives a logger for another component sharing the same output
func (l *Logger) With(component string) *Logger {
	return &Logger{
		component: component,
		verbose:   l.verbose,
		out:       l.out,
	}
}

// SetOutput redirects this logger and every logger derived from it
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w = w
}

// IsVerbose reports whether Debug and Info lines are emitted
func (l *Logger) IsVerbose() bool {
	return l.verbose != nil && l.verbose()
}

func (l *Logger) Debug(msg string, fields ...Field) {
	if l.IsVerbose() {
		l.write("DEBUG", msg, fields)
	}
}

func (l *Logger) Info(msg string, fields ...Field) {
	if l.IsVerbose() {
		l.write("INFO", msg, fields)
	}
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.write("WARN", msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.write("ERROR", msg, fields)
}

func (l *Logger) write(level, msg string, fields []Field) {
	component := l.component
	if component == "" {
		component = "main"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] %s", time.Now().Format("15:04:05.000"), level, component, msg)
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		b.WriteString(" [" + strings.Join(parts, " ") + "]")
	}
	b.WriteByte('\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	// nowhere left to report a failed log write
	_, _ = io.WriteString(l.out.w, b.String())
}

func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d.Round(time.Millisecond)}
}

func Count(n int) Field {
	return Field{Key: "count", Value: n}
}
