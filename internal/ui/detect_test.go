package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInteractive_EnvOverrides(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("TAQLOAD_NON_INTERACTIVE", "1")
	assert.False(t, IsInteractive())

	t.Setenv("TAQLOAD_NON_INTERACTIVE", "")
	t.Setenv("CI", "true")
	assert.False(t, IsInteractive())
}

func TestInteractiveApprover_DeniesWhenNonInteractive(t *testing.T) {
	t.Setenv("TAQLOAD_NON_INTERACTIVE", "1")

	approved, err := NewInteractiveApprover(false).RequestApproval(context.Background(), "taq_trades")
	require.NoError(t, err)
	assert.False(t, approved)
}
