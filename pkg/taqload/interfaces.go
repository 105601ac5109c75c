package taqload

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector is a unified interface for establishing database connections.
// Different implementations handle various authentication methods
// (standard credentials, cloud IAM tokens, etc.).
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// ChunkLoader ingests one chunk file into the destination store.
// The pipeline treats it as opaque, synchronous work: a nil error is a
// successful load, any non-nil error marks the chunk Failed and its text is
// the diagnostic side channel.
//
// Load must be a pure function of the chunk file's contents so that re-running
// it on the same unmodified file is safe to retry manually.
type ChunkLoader interface {
	Load(ctx context.Context, chunkPath string) error
}

// Approver handles user interaction for approval workflows,
// particularly for the destructive --truncate operation.
type Approver interface {
	// RequestApproval prompts for confirmation before truncating the
	// destination table. Returns true if approved.
	RequestApproval(ctx context.Context, table string) (bool, error)
}

// ErrorClassifier determines whether an error is transient (retryable) or fatal.
type ErrorClassifier interface {
	// IsTransient returns true if the error is temporary and the operation should be retried.
	IsTransient(err error) bool
}

// BackoffStrategy calculates the delay before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the duration to wait before the next attempt.
	// attempt is zero-indexed (0 = first retry, 1 = second retry, etc.)
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the maximum number of retry attempts (0 = no retries, -1 = unlimited)
	MaxAttempts() int
}
