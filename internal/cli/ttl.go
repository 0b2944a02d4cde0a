package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cachecmd/cachecmd/internal/engine/cache"
)

// NewTTLCmd creates the ttl command: show the TTL that would apply to a
// command under the current hint file.
func NewTTLCmd() *cobra.Command {
	var fallbackFlag string

	cmd := &cobra.Command{
		Use:   "ttl [flags] -- <command> [args...]",
		Short: "Show the effective TTL for a command",
		Long: `Resolves the TTL the cache would apply to the given command:
an explicit TTL on the matching hint-file rule wins, then the hint
file's default TTL, then the --fallback value. Without any of those the
result is cached forever.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fallback *time.Duration
			if fallbackFlag != "" {
				d, err := cache.ParseTTL(fallbackFlag)
				if err != nil {
					return err
				}
				fallback = &d
			}

			engine, err := cacheFromCmd(cmd)
			if err != nil {
				return err
			}

			ttl := engine.EffectiveTTL(commandFromArgs(args), fallback)
			if ttl == nil {
				cmd.Println("none (cache forever)")
				return nil
			}
			cmd.Println(cache.FormatDuration(*ttl))
			return nil
		},
	}

	cmd.Flags().StringVar(&fallbackFlag, "fallback", "",
		"TTL to report when neither rule nor default declares one (seconds or duration)")

	return cmd
}
