package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vvka-141/taqload/pkg/taqload"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the table name
// to confirm the destructive truncate.
type InteractiveApprover struct {
	verbose bool
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(verbose bool) taqload.Approver {
	return &InteractiveApprover{verbose: verbose}
}

// RequestApproval prompts the user to type the table name to confirm.
// In a non-interactive session (pipe, cron, CI) it denies immediately and
// points at --force instead of blocking on a read that will never return.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, table string) (bool, error) {
	if !IsInteractive() {
		fmt.Fprintln(os.Stderr, "Refusing to truncate without confirmation in a non-interactive session.")
		fmt.Fprintln(os.Stderr, "Use --force to truncate without prompting.")
		return false, nil
	}

	fmt.Fprintf(os.Stderr, "\nWARNING: You are about to TRUNCATE the table '%s'\n", table)
	fmt.Fprintln(os.Stderr, "This will permanently delete all rows currently in this table!")
	fmt.Fprintf(os.Stderr, "\nTo confirm, type the table name '%s' and press Enter: ", table)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == table {
			fmt.Fprintln(os.Stderr, "Confirmed. Proceeding with truncate...")
			return true, nil
		}
		fmt.Fprintf(os.Stderr, "Input '%s' does not match table name '%s'. Operation cancelled.\n", input, table)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ taqload.Approver = (*InteractiveApprover)(nil)
