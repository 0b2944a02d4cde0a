// Package logging configures structured logging for cachecmd.
//
// All logging goes through zerolog. Commands obtain a logger from the
// context via FromContext so that library code never reaches for a
// package-level global.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output destinations understood by Config.Output.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Log formats understood by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Invalid or
	// empty values fall back to info.
	Level string

	// Format selects console (human-readable) or json output.
	Format string

	// Output selects the destination: stderr, stdout or file.
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller adds the caller file:line to each event.
	Caller bool
}

// New builds a zerolog.Logger from cfg. When logging to a file the
// returned closer must be called at the end of the invocation; for
// stream outputs it is a no-op.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var (
		out     io.Writer
		closeFn = func() error { return nil }
	)

	switch cfg.Output {
	case OutputFile:
		file, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if openErr != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("opening log file %s: %w", cfg.File, openErr)
		}
		out = file
		closeFn = file.Close
	case OutputStdout:
		out = os.Stdout
	default:
		out = os.Stderr
	}

	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}

	return ctx.Logger(), closeFn, nil
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// FromContext returns the logger stored on ctx, or a disabled logger
// when none was attached.
func FromContext(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}
