package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taqload/internal/logging"
	"github.com/vvka-141/taqload/internal/testinfra"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := testinfra.StartPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = ctr.Terminate(ctx)
	})

	pool, err := pgxpool.New(ctx, ctr.ConnString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		CREATE TABLE taq_trades (
			trade_time text NOT NULL,
			symbol     text NOT NULL,
			price      numeric NOT NULL,
			size       integer NOT NULL
		)`)
	require.NoError(t, err)

	return pool
}

func writeChunk(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk_0.csv")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func rowCount(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT count(*) FROM taq_trades").Scan(&n))
	return n
}

func TestCopyLoader_LoadsChunk(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	chunk := writeChunk(t, "09:30:01|AAPL|181.50|100\n09:30:02|MSFT|402.25|250\n")

	l := NewCopyLoader(pool, "taq_trades", "|", logging.NewNullLogger())
	require.NoError(t, l.Load(ctx, chunk))

	assert.Equal(t, 2, rowCount(t, pool))

	var symbol string
	var size int
	err := pool.QueryRow(ctx,
		"SELECT symbol, size FROM taq_trades WHERE trade_time = '09:30:02'").Scan(&symbol, &size)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", symbol)
	assert.Equal(t, 250, size)
}

func TestCopyLoader_EmptyChunk(t *testing.T) {
	pool := setupPool(t)

	chunk := writeChunk(t, "")

	l := NewCopyLoader(pool, "taq_trades", "|", logging.NewNullLogger())
	require.NoError(t, l.Load(context.Background(), chunk))
	assert.Equal(t, 0, rowCount(t, pool))
}

func TestCopyLoader_MalformedRowFailsAtomically(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	good := writeChunk(t, "09:30:01|AAPL|181.50|100\n")
	l := NewCopyLoader(pool, "taq_trades", "|", logging.NewNullLogger())
	require.NoError(t, l.Load(ctx, good))

	// size column is not numeric in the second row
	bad := writeChunk(t, "09:30:02|MSFT|402.25|250\n09:30:03|GOOG|140.00|lots\n")
	err := l.Load(ctx, bad)
	require.Error(t, err)

	// Failed COPY must not leave partial rows from the bad chunk.
	assert.Equal(t, 1, rowCount(t, pool))
}

func TestCopyLoader_MissingChunkFile(t *testing.T) {
	pool := setupPool(t)

	l := NewCopyLoader(pool, "taq_trades", "|", logging.NewNullLogger())
	err := l.Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open chunk file")
}

func TestTruncateTable(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	chunk := writeChunk(t, "09:30:01|AAPL|181.50|100\n")
	l := NewCopyLoader(pool, "taq_trades", "|", logging.NewNullLogger())
	require.NoError(t, l.Load(ctx, chunk))
	require.Equal(t, 1, rowCount(t, pool))

	require.NoError(t, TruncateTable(ctx, pool, "taq_trades"))
	assert.Equal(t, 0, rowCount(t, pool))
}
