package taqload

// Logger provides a pluggable logging interface for taqload operations.
// Implementations must be safe for concurrent use by multiple goroutines:
// import workers emit progress lines concurrently.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	// Always logged regardless of verbose mode.
	Info(format string, args ...interface{})

	// Progress logs a timestamped per-chunk progress line.
	// Must be written and flushed immediately so progress is observable in
	// real time, not only at the end of the run.
	Progress(format string, args ...interface{})

	// Error logs error messages.
	// Always logged regardless of verbose mode.
	Error(format string, args ...interface{})
}
