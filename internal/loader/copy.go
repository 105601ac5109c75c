// Package loader ingests chunk files into PostgreSQL using the COPY
// protocol. COPY FROM STDIN streams a whole chunk in one round trip, which
// is the fastest supported bulk path and keeps the per-chunk work a single
// implicit transaction: a failed chunk leaves no partial rows behind.
package loader

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/taqload/internal/retry"
	"github.com/vvka-141/taqload/pkg/taqload"
)

// CopyLoader loads chunk files into a single destination table via
// COPY FROM STDIN. It is safe for concurrent use: each Load acquires its
// own connection from the pool.
type CopyLoader struct {
	pool      *pgxpool.Pool
	table     string
	delimiter string
	executor  *retry.Executor
	logger    taqload.Logger
}

// NewCopyLoader creates a CopyLoader for the given destination table.
// Transient failures (connection drops, lock waits, resource pressure) are
// retried with exponential backoff; COPY is atomic per statement, so a
// retried chunk never duplicates rows.
func NewCopyLoader(pool *pgxpool.Pool, table, delimiter string, logger taqload.Logger) *CopyLoader {
	executor := retry.NewExecutor(
		retry.NewPostgreSQLErrorClassifier(),
		retry.NewExponentialBackoff(taqload.DefaultRetryMaxAttempts,
			retry.WithInitialDelay(taqload.DefaultRetryInitialDelay),
			retry.WithMaxDelay(taqload.DefaultRetryMaxDelay),
		),
	).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("Transient load error (attempt %d, retrying in %v): %v", attempt+1, delay, err)
	})

	return &CopyLoader{
		pool:      pool,
		table:     table,
		delimiter: delimiter,
		executor:  executor,
		logger:    logger,
	}
}

// Load streams one chunk file into the destination table.
// The file is reopened on every attempt because a failed COPY may have
// consumed part of the stream.
func (l *CopyLoader) Load(ctx context.Context, chunkPath string) error {
	return l.executor.Execute(ctx, func(ctx context.Context) error {
		return l.copyOnce(ctx, chunkPath)
	})
}

func (l *CopyLoader) copyOnce(ctx context.Context, chunkPath string) error {
	file, err := os.Open(chunkPath)
	if err != nil {
		return fmt.Errorf("failed to open chunk file: %w", err)
	}
	defer file.Close()

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	sql := fmt.Sprintf(
		"COPY %s FROM STDIN WITH (FORMAT csv, DELIMITER '%s')",
		quoteTable(l.table),
		escapeDelimiter(l.delimiter),
	)

	tag, err := conn.Conn().PgConn().CopyFrom(ctx, file, sql)
	if err != nil {
		return fmt.Errorf("COPY into %s failed: %w", l.table, err)
	}

	l.logger.Verbose("Loaded %d rows from %s", tag.RowsAffected(), chunkPath)
	return nil
}

// TruncateTable empties the destination table. It runs outside the retry
// loop: a truncate that fails needs operator attention, not a retry.
func TruncateTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+quoteTable(table)); err != nil {
		return fmt.Errorf("failed to truncate table %s: %w", table, err)
	}
	return nil
}

// quoteTable renders a possibly schema-qualified table name with each part
// quoted, so the name can never be interpreted as extra SQL.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	return pgx.Identifier(parts).Sanitize()
}

// escapeDelimiter doubles single quotes so the delimiter is safe inside
// the COPY options literal.
func escapeDelimiter(d string) string {
	return strings.ReplaceAll(d, "'", "''")
}
