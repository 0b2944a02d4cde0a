package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cachecmd/cachecmd/internal/engine/cache"
)

// cacheFromCmd constructs the engine for one invocation, honoring the
// persistent --cache-dir flag.
func cacheFromCmd(cmd *cobra.Command) (*cache.Cache, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	return cache.New(cmd.Context(), cache.Options{Dir: dir})
}

// commandFromArgs joins positional args back into the full command
// string the engine fingerprints.
func commandFromArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
