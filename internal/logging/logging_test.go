package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults to info on bad level", func(t *testing.T) {
		logger, closeFn, err := New(Config{Level: "chatty"})
		require.NoError(t, err)
		defer func() { _ = closeFn() }()
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cachecmd.log")
		logger, closeFn, err := New(Config{Level: "debug", Format: FormatJSON, Output: OutputFile, File: path})
		require.NoError(t, err)
		logger.Info().Msg("written")
		require.NoError(t, closeFn())

		assert.FileExists(t, path)
	})

	t.Run("unwritable file errors", func(t *testing.T) {
		_, _, err := New(Config{Output: OutputFile, File: filepath.Join(t.TempDir(), "missing", "x.log")})
		require.Error(t, err)
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	t.Run("generated when absent", func(t *testing.T) {
		id := GetOrGenerateTraceID(ctx)
		assert.Len(t, id, 26, "ULIDs are 26 characters")
	})

	t.Run("round trip", func(t *testing.T) {
		ctx := ContextWithTraceID(ctx, "trace-123")
		assert.Equal(t, "trace-123", TraceIDFromContext(ctx))
		assert.Equal(t, "trace-123", GetOrGenerateTraceID(ctx))
	})

	t.Run("absent is empty", func(t *testing.T) {
		assert.Empty(t, TraceIDFromContext(ctx))
	})
}

func TestComponentLogger(t *testing.T) {
	base, closeFn, err := New(Config{Level: "info", Format: FormatJSON})
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	logger := ComponentLogger(base, "engine")
	ctx := logger.WithContext(context.Background())
	fromCtx := FromContext(ctx)
	assert.Equal(t, logger.GetLevel(), fromCtx.GetLevel())
}
