package taqload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := importer.Run(ctx, config)
//	if errors.Is(err, taqload.ErrImportFailed) {
//	    // At least one chunk did not load; temp files were retained.
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceNotFound indicates the source file does not exist or is unreadable.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrSplitFailed indicates preprocessing or chunk-file writing failed.
	ErrSplitFailed = errors.New("split failed")

	// ErrImportFailed indicates one or more chunks failed to load.
	ErrImportFailed = errors.New("import failed")

	// ErrApprovalDenied indicates the user denied approval for the operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
//
// Unlike the classic shell pipelines this tool replaces, per-chunk load
// failures DO surface in the process exit code (ExitImportFailed).
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrSplitFailed):
		return ExitSplitFailed
	case errors.Is(err, ErrImportFailed):
		return ExitImportFailed
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	}

	errStr := err.Error()

	// cobra reports flag/argument misuse as plain errors; map its message
	// shapes to the usage exit code.
	if isUsageError(errStr) {
		return ExitUsageError
	}

	// Check for common connection error patterns
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

func isUsageError(errStr string) bool {
	usagePatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"invalid argument",
		"flag needs an argument",
		"required flag",
		"accepts ",
		"requires at least",
		"requires at most",
	}

	for _, pattern := range usagePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
