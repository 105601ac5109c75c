package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/taqload/pkg/taqload"
)

// ForcedApprover implements the Approver interface for --force mode.
// It prints a warning with a short countdown instead of prompting, so an
// operator watching the terminal still has a window to Ctrl-C before the
// destination table is truncated.
type ForcedApprover struct {
	countdown time.Duration
	out       io.Writer
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewForcedApprover creates a ForcedApprover with the default countdown.
func NewForcedApprover() taqload.Approver {
	return &ForcedApprover{
		countdown: taqload.ForceCountdown,
		out:       os.Stderr,
		sleep:     sleepCtx,
	}
}

// RequestApproval approves the truncate after printing a warning and
// counting down. A cancelled context aborts the countdown and denies.
func (a *ForcedApprover) RequestApproval(ctx context.Context, table string) (bool, error) {
	fmt.Fprintf(a.out, "\nWARNING: --force specified, truncating table '%s' without confirmation.\n", table)

	seconds := int(a.countdown / time.Second)
	for i := seconds; i > 0; i-- {
		fmt.Fprintf(a.out, "Proceeding in %d...\n", i)
		if err := a.sleep(ctx, time.Second); err != nil {
			return false, err
		}
	}

	return true, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ taqload.Approver = (*ForcedApprover)(nil)
