// Package cli wires the cachecmd subcommands to the memoization engine.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root Cobra command for the cachecmd CLI.
// It wires up logging and the run, list, clear and ttl subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cachecmd",
		Short:   "Memoize external command output",
		Long:    "cachecmd: run commands and cache their stdout, keyed by declared environment and file dependencies",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("cache-dir", "",
		"cache directory (default: $CACHECMD_CACHE_DIR or the user cache directory)")
	cmd.AddCommand(NewRunCmd(), NewListCmd(), NewClearCmd(), NewTTLCmd())

	return cmd
}

const rootCmdExample = `  # Run a command, caching its stdout
  cachecmd run -- curl -s https://example.com/api

  # Re-run even when a cached result exists
  cachecmd run --force -- make generate

  # Cache for five minutes regardless of hint file settings
  cachecmd run --ttl 5m -- terraform output -json

  # List cached commands, newest first
  cachecmd list

  # Drop the cached result of one command
  cachecmd clear -- make generate

  # Drop everything
  cachecmd clear --all

  # Inspect the TTL that would apply to a command
  cachecmd ttl -- cargo build`
