package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewClearCmd creates the clear command: drop one cached command or the
// whole cache.
func NewClearCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [flags] [-- <command> [args...]]",
		Short: "Remove cached results",
		Example: `  # Remove the cached result of one command
  cachecmd clear -- make generate

  # Remove everything
  cachecmd clear --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := commandFromArgs(args)
			if all && command != "" {
				return errors.New("--all cannot be combined with a command")
			}
			if !all && command == "" {
				return errors.New("specify a command to clear, or --all")
			}

			engine, err := cacheFromCmd(cmd)
			if err != nil {
				return err
			}

			removed, err := engine.Clear(command)
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d cached entr%s.\n", removed, pluralY(removed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "remove every cached entry")

	return cmd
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
