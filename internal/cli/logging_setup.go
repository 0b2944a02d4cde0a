package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cachecmd/cachecmd/internal/engine/cache"
	"github.com/cachecmd/cachecmd/internal/logging"
)

// setupLogging configures the invocation logger from the --debug flag
// and environment, attaches it and a fresh trace ID to the command
// context.
func setupLogging(cmd *cobra.Command) {
	cfg := logging.Config{
		Level:  os.Getenv(cache.EnvLogLevel),
		Format: os.Getenv(cache.EnvLogFormat),
		Output: logging.OutputStderr,
	}

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.Level = "debug"
		cfg.Format = logging.FormatConsole
	}

	// Default to console output on interactive terminals, JSON otherwise.
	if cfg.Format == "" {
		if isTerminal(os.Stderr) {
			cfg.Format = logging.FormatConsole
		} else {
			cfg.Format = logging.FormatJSON
		}
	}

	base, _, err := logging.New(cfg)
	if err != nil {
		cmd.PrintErrf("Warning: logging setup failed: %v\n", err)
	}
	logger := logging.ComponentLogger(base, "cli")

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)

	logger = logger.With().Str("trace_id", traceID).Logger()
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
}
