package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForcedApprover(out *bytes.Buffer, countdown time.Duration) *ForcedApprover {
	return &ForcedApprover{
		countdown: countdown,
		out:       out,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return nil
			}
		},
	}
}

func TestForcedApprover_Approves(t *testing.T) {
	var out bytes.Buffer
	a := newTestForcedApprover(&out, 3*time.Second)

	approved, err := a.RequestApproval(context.Background(), "taq_trades")
	require.NoError(t, err)
	assert.True(t, approved)

	assert.Contains(t, out.String(), "taq_trades")
	assert.Contains(t, out.String(), "Proceeding in 3...")
	assert.Contains(t, out.String(), "Proceeding in 1...")
}

func TestForcedApprover_CancelledContextDenies(t *testing.T) {
	var out bytes.Buffer
	a := newTestForcedApprover(&out, 3*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approved, err := a.RequestApproval(ctx, "taq_trades")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, approved)
}

func TestForcedApprover_ZeroCountdownSkipsWait(t *testing.T) {
	var out bytes.Buffer
	a := newTestForcedApprover(&out, 0)

	approved, err := a.RequestApproval(context.Background(), "taq_trades")
	require.NoError(t, err)
	assert.True(t, approved)
	assert.NotContains(t, out.String(), "Proceeding")
}
