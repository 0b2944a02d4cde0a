package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "300", want: 300 * time.Second},
		{input: "5m", want: 5 * time.Minute},
		{input: "1h30m", want: 90 * time.Minute},
		{input: "0", wantErr: true},
		{input: "-10", wantErr: true},
		{input: "-5m", wantErr: true},
		{input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTTL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{30 * time.Minute, "30m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h30m"},
		{48 * time.Hour, "2d"},
		{50 * time.Hour, "2d2h"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestDefaultDir(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvCacheDir, dir)
		assert.Equal(t, dir, DefaultDir())
	})

	t.Run("falls back to the user cache directory", func(t *testing.T) {
		t.Setenv(EnvCacheDir, "")
		got := DefaultDir()
		assert.Equal(t, "cachecmd", filepath.Base(got))
	})
}
