package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taqload",
	Short: "Chunked-parallel TAQ file importer for PostgreSQL",
	Long: `taqload imports delimited TAQ trade files into PostgreSQL.

The source file is stripped of its header and footer records, split into
contiguous chunk files, and loaded concurrently over the COPY protocol.
Each chunk succeeds or fails on its own; the run report shows every chunk
with its line range, status, and elapsed time.

Exit Codes:
  0  - Success (every chunk loaded)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - User denied truncate approval
  20 - Source file not found
  21 - Split or preprocessing failed
  22 - One or more chunks failed to load`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
