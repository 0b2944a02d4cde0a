package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command: cached commands, newest first.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached commands, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := cacheFromCmd(cmd)
			if err != nil {
				return err
			}

			entries, err := engine.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No cached commands.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tCOMMAND")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\n", entry.CreatedAt.Format(time.RFC3339), entry.Command)
			}
			return w.Flush()
		},
	}
}
