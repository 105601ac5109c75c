// Package ui handles user interaction for approval workflows, in particular
// the confirmation required before truncating the destination table.
package ui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether a human is at the terminal.
//
// Returns false if:
//   - stdin or stderr is not a terminal (piped input, cron)
//   - TAQLOAD_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
func IsInteractive() bool {
	if os.Getenv("TAQLOAD_NON_INTERACTIVE") == "1" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}

	return true
}
