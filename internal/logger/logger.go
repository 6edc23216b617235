// Package logger provides leveled stderr logging for the floatd daemon.
// Debug, info, and section output is gated behind verbose mode (the
// --verbose flag) so the watch loop stays quiet by default; warnings and
// errors always print. Components attribute their messages by creating a
// named logger with Named.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// Logger prefixes every message with a component name. The zero value logs
// without a prefix; the package-level functions use it.
type Logger struct {
	name string
}

var root = &Logger{}

// Named returns a logger whose messages carry the component name, e.g.
// "[INFO] dropzone: file settled".
func Named(name string) *Logger {
	return &Logger{name: name}
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr. Useful for
// testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one line, holding the lock across the gate check and the
// write so the output writer cannot change between them.
func (l *Logger) emit(gated bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	if l.name != "" {
		fmt.Fprintf(output, "["+level+"] "+l.name+": "+format+"\n", args...)
		return
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.emit(true, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (l *Logger) Info(format string, args ...any) {
	l.emit(true, "INFO", format, args...)
}

// Warn prints a warning message. Warnings are never gated.
func (l *Logger) Warn(format string, args ...any) {
	l.emit(false, "WARN", format, args...)
}

// Error prints an error message. Never gated.
func (l *Logger) Error(format string, args ...any) {
	l.emit(false, "ERROR", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Debug prints an unprefixed message if verbose mode is enabled.
func Debug(format string, args ...any) { root.Debug(format, args...) }

// Info prints an unprefixed informational message if verbose mode is enabled.
func Info(format string, args ...any) { root.Info(format, args...) }

// Warn prints an unprefixed warning message. Never gated.
func Warn(format string, args ...any) { root.Warn(format, args...) }

// Error prints an unprefixed error message. Never gated.
func Error(format string, args ...any) { root.Error(format, args...) }
