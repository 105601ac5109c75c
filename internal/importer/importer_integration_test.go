package importer

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taqload/internal/db"
	"github.com/vvka-141/taqload/internal/testinfra"
	"github.com/vvka-141/taqload/pkg/taqload"
)

type approveAll struct{}

func (approveAll) RequestApproval(context.Context, string) (bool, error) { return true, nil }

type denyAll struct{}

func (denyAll) RequestApproval(context.Context, string) (bool, error) { return false, nil }

func startDatabase(t *testing.T) (string, *pgxpool.Pool) {
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

	return ctr.ConnString, pool
}

func newConnector(t *testing.T, connString string, workers int) taqload.Connector {
	t.Helper()
	connCfg, err := db.ParseConnectionString(connString)
	require.NoError(t, err)
	connector, err := db.NewConnector(connCfg, workers)
	require.NoError(t, err)
	return connector
}

func TestService_Run_EndToEnd(t *testing.T) {
	connString, pool := startDatabase(t)
	ctx := context.Background()

	cfg := testConfig(t, writeSource(t, 100))
	cfg.ChunkCount = 8
	cfg.ConnectionString = connString

	svc := NewService(newConnector(t, connString, 8), approveAll{}, &recordingLogger{})
	require.NoError(t, svc.Run(ctx, cfg))

	var n int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM taq_trades").Scan(&n))
	assert.Equal(t, 100, n)

	assert.Empty(t, runDirs(t, cfg.TempDir))
}

func TestService_Run_TruncateReplacesRows(t *testing.T) {
	connString, pool := startDatabase(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, "INSERT INTO taq_trades VALUES ('09:00:00', 'OLD', 1.0, 1)")
	require.NoError(t, err)

	cfg := testConfig(t, writeSource(t, 20))
	cfg.ConnectionString = connString
	cfg.Truncate = true

	svc := NewService(newConnector(t, connString, 4), approveAll{}, &recordingLogger{})
	require.NoError(t, svc.Run(ctx, cfg))

	var n int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM taq_trades").Scan(&n))
	assert.Equal(t, 20, n)

	var old int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM taq_trades WHERE symbol = 'OLD'").Scan(&old))
	assert.Zero(t, old)
}

func TestService_Run_TruncateDenied(t *testing.T) {
	connString, pool := startDatabase(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, "INSERT INTO taq_trades VALUES ('09:00:00', 'OLD', 1.0, 1)")
	require.NoError(t, err)

	cfg := testConfig(t, writeSource(t, 20))
	cfg.ConnectionString = connString
	cfg.Truncate = true

	svc := NewService(newConnector(t, connString, 4), denyAll{}, &recordingLogger{})
	err = svc.Run(ctx, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, taqload.ErrApprovalDenied)
	assert.Equal(t, taqload.ExitApprovalDenied, taqload.ExitCodeForError(err))

	// Denied approval must leave the table untouched.
	var n int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM taq_trades").Scan(&n))
	assert.Equal(t, 1, n)
}
