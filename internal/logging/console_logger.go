// Package logging provides concrete implementations of the taqload.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ConsoleLogger writes diagnostics to stderr and progress lines to stdout.
// Safe for concurrent use by multiple goroutines: import workers log
// progress concurrently, so every write holds the mutex and a progress
// line is emitted as a single Fprintf call.
type ConsoleLogger struct {
	verbose bool
	mu      sync.Mutex

	// out receives progress lines; defaults to os.Stdout.
	// Overridable for tests.
	out io.Writer

	// now supplies progress timestamps; defaults to time.Now.
	now func() time.Time
}

// NewConsoleLogger creates a new ConsoleLogger.
// If verbose is true, Verbose() calls will produce output.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: verbose,
		out:     os.Stdout,
		now:     time.Now,
	}
}

// NewConsoleLoggerTo is like NewConsoleLogger but sends progress lines to out
// and stamps them with now. Used by tests to capture and order output.
func NewConsoleLoggerTo(verbose bool, out io.Writer, now func() time.Time) *ConsoleLogger {
	return &ConsoleLogger{verbose: verbose, out: out, now: now}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	} else {
		fmt.Fprint(os.Stderr, "[VERBOSE] "+format+"\n")
	}
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(l.out, format+"\n", args...)
	} else {
		fmt.Fprint(l.out, format+"\n")
	}
}

// Progress logs a timestamped per-chunk progress line to stdout.
// Writes go straight to the unbuffered stdout file, so each line is
// visible as soon as it is emitted.
func (l *ConsoleLogger) Progress(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stamp := l.now().Format("15:04:05")
	if len(args) > 0 {
		fmt.Fprintf(l.out, "["+stamp+"] "+format+"\n", args...)
	} else {
		fmt.Fprint(l.out, "["+stamp+"] "+format+"\n")
	}
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
	} else {
		fmt.Fprint(os.Stderr, "[ERROR] "+format+"\n")
	}
}
