package taqload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Import completed, every chunk loaded
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied truncate approval
	ExitSourceMissing   = 20 // Source file does not exist or is unreadable
	ExitSplitFailed     = 21 // Preprocessing or chunk-file writing failed
	ExitImportFailed    = 22 // One or more chunks failed to load
)

const (
	// DefaultChunkCount is the number of chunk files the source is split into
	// when --chunks is not given.
	DefaultChunkCount = 8

	// DefaultTable is the destination table for TAQ trade rows.
	DefaultTable = "taq_trades"

	// DefaultDelimiter is the field separator of the TAQ feed.
	DefaultDelimiter = "|"

	// DefaultTimeout is the catastrophic failure protection timeout for the
	// whole run. It guards against hung connections, not normal load time,
	// so it is generous.
	DefaultTimeout = 3 * time.Minute

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultManagementDB is the database used when a connection string names none.
	DefaultManagementDB = "postgres"

	// CleanedFileName is the name of the header/footer-stripped copy of the
	// source inside the run directory.
	CleanedFileName = "cleaned"

	// ChunkFilePattern names chunk files inside the run directory.
	// The single %d is the 0-based chunk index.
	ChunkFilePattern = "chunk_%d.csv"

	// ForceCountdown is how long --force mode waits before truncating,
	// giving the operator a last chance to abort.
	ForceCountdown = 3 * time.Second
)
