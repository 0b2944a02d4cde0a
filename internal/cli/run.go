package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cachecmd/cachecmd/internal/engine/cache"
)

// NewRunCmd creates the run command: execute a command with caching and
// print its (possibly cached) stdout verbatim.
func NewRunCmd() *cobra.Command {
	var (
		ttlFlag string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command, returning cached stdout when available",
		Long: `Runs the given command and caches its stdout.

The cache key is derived from the command text plus any environment
variables and file dependencies declared for it in ` + "`.cachecmd.yaml`" + `.
A later run with the same key returns the cached stdout without
re-executing, and restores any captured directory artifacts.`,
		Example: `  # First call executes, second call is served from cache
  cachecmd run -- date +%s
  cachecmd run -- date +%s

  # Force re-execution
  cachecmd run --force -- date +%s`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ttl *time.Duration
			if ttlFlag != "" {
				d, err := cache.ParseTTL(ttlFlag)
				if err != nil {
					return err
				}
				ttl = &d
			}

			engine, err := cacheFromCmd(cmd)
			if err != nil {
				return err
			}

			stdout, err := engine.Run(cmd.Context(), commandFromArgs(args), ttl, force)
			if stdout != "" {
				// Stdout stays valid even when err reports an artifact
				// failure; print it before surfacing the error.
				fmt.Fprint(cmd.OutOrStdout(), stdout)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&ttlFlag, "ttl", "",
		"fallback TTL when the hint file declares none (seconds or duration, e.g. 300 or 5m)")
	cmd.Flags().BoolVar(&force, "force", false, "re-execute even when a valid cached result exists")

	return cmd
}
