package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHints = `
default:
  ttl: 60
  include_env:
    - PATH
    - PATH
commands:
  - pattern: "cargo *"
    ttl: 10
    include_env:
      - RUSTFLAGS
    depends_on:
      - file: Cargo.toml
      - files: "src/**"
      - lines:
          file: Cargo.lock
          pattern: "^version"
    artifacts:
      - type: directory
        path: target
      - type: files
        paths: [out.bin]
      - type: docker_image
        name_from: command
        position: 2
  - pattern: "npm install"
`

func writeHintFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, HintFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeHintFile(t, t.TempDir(), sampleHints)

	hf, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, hf.Default.TTL)
	assert.Equal(t, uint64(60), *hf.Default.TTL)
	assert.Equal(t, []string{"PATH"}, hf.Default.IncludeEnv, "duplicate env names are dropped")

	require.Len(t, hf.Commands, 2)
	cargo := hf.Commands[0]
	assert.Equal(t, "cargo *", cargo.Pattern)
	require.NotNil(t, cargo.TTL)
	assert.Equal(t, uint64(10), *cargo.TTL)

	require.Len(t, cargo.DependsOn, 3)
	assert.Equal(t, DependencyFile, cargo.DependsOn[0].Kind)
	assert.Equal(t, "Cargo.toml", cargo.DependsOn[0].File)
	assert.Equal(t, DependencyFileSet, cargo.DependsOn[1].Kind)
	assert.Equal(t, "src/**", cargo.DependsOn[1].Glob)
	assert.Equal(t, DependencyLines, cargo.DependsOn[2].Kind)
	assert.Equal(t, "Cargo.lock", cargo.DependsOn[2].Lines.File)
	assert.Equal(t, "^version", cargo.DependsOn[2].Lines.Pattern)

	require.Len(t, cargo.Artifacts, 3)
	assert.Equal(t, ArtifactDirectory, cargo.Artifacts[0].Type)
	assert.Equal(t, "target", cargo.Artifacts[0].Path)
	assert.Equal(t, ArtifactFiles, cargo.Artifacts[1].Type)
	assert.Equal(t, ArtifactDockerImage, cargo.Artifacts[2].Type)
	assert.Equal(t, 2, cargo.Artifacts[2].Position)

	assert.Nil(t, hf.Commands[1].TTL)
}

func TestLoadRejectsAmbiguousDependency(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "two shapes at once",
			doc: `
commands:
  - pattern: x
    depends_on:
      - file: a.txt
        files: "*.txt"
`,
		},
		{
			name: "no shape",
			doc: `
commands:
  - pattern: x
    depends_on:
      - ttl: 5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeHintFile(t, t.TempDir(), tt.doc)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAmbiguousDependency)
		})
	}
}

func TestFindMatching(t *testing.T) {
	hf := &HintFile{
		Commands: []CommandHint{
			{Pattern: "cargo *"},
			{Pattern: "[invalid"},
			{Pattern: "npm install"},
		},
	}

	t.Run("glob match", func(t *testing.T) {
		hint := hf.FindMatching("cargo build --release")
		require.NotNil(t, hint)
		assert.Equal(t, "cargo *", hint.Pattern)
	})

	t.Run("first match wins", func(t *testing.T) {
		hf2 := &HintFile{Commands: []CommandHint{
			{Pattern: "cargo *", TTL: ptr(uint64(1))},
			{Pattern: "cargo build", TTL: ptr(uint64(2))},
		}}
		hint := hf2.FindMatching("cargo build")
		require.NotNil(t, hint)
		assert.Equal(t, uint64(1), *hint.TTL)
	})

	t.Run("invalid pattern degrades to exact equality", func(t *testing.T) {
		assert.Nil(t, hf.FindMatching("[invalid build"))
		hint := hf.FindMatching("[invalid")
		require.NotNil(t, hint)
		assert.Equal(t, "[invalid", hint.Pattern)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, hf.FindMatching("make all"))
	})

	t.Run("nil receiver", func(t *testing.T) {
		var nilHints *HintFile
		assert.Nil(t, nilHints.FindMatching("anything"))
	})
}

func TestEffectiveTTL(t *testing.T) {
	hf := &HintFile{
		Default: DefaultSettings{TTL: ptr(uint64(60))},
		Commands: []CommandHint{
			{Pattern: "cargo *", TTL: ptr(uint64(10))},
			{Pattern: "npm *"},
		},
	}
	fallback := 5 * time.Minute

	t.Run("rule TTL wins over default", func(t *testing.T) {
		ttl := hf.EffectiveTTL("cargo build", &fallback)
		require.NotNil(t, ttl)
		assert.Equal(t, 10*time.Second, *ttl)
	})

	t.Run("matching rule without TTL falls back to default", func(t *testing.T) {
		ttl := hf.EffectiveTTL("npm install", &fallback)
		require.NotNil(t, ttl)
		assert.Equal(t, 60*time.Second, *ttl)
	})

	t.Run("non-matching command uses default", func(t *testing.T) {
		ttl := hf.EffectiveTTL("make all", &fallback)
		require.NotNil(t, ttl)
		assert.Equal(t, 60*time.Second, *ttl)
	})

	t.Run("caller fallback when hint file declares nothing", func(t *testing.T) {
		bare := &HintFile{}
		ttl := bare.EffectiveTTL("make all", &fallback)
		require.NotNil(t, ttl)
		assert.Equal(t, fallback, *ttl)
	})

	t.Run("absent everywhere means cache forever", func(t *testing.T) {
		bare := &HintFile{}
		assert.Nil(t, bare.EffectiveTTL("make all", nil))
	})

	t.Run("nil receiver uses fallback", func(t *testing.T) {
		var nilHints *HintFile
		ttl := nilHints.EffectiveTTL("make all", &fallback)
		require.NotNil(t, ttl)
		assert.Equal(t, fallback, *ttl)
	})
}

func TestDiscover(t *testing.T) {
	ctx := context.Background()

	t.Run("walks parent directories", func(t *testing.T) {
		root := t.TempDir()
		writeHintFile(t, root, sampleHints)
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o750))

		hf := Discover(ctx, nested)
		require.NotNil(t, hf)
		assert.Len(t, hf.Commands, 2)
	})

	t.Run("nearest hint file wins", func(t *testing.T) {
		root := t.TempDir()
		writeHintFile(t, root, sampleHints)
		nested := filepath.Join(root, "sub")
		require.NoError(t, os.MkdirAll(nested, 0o750))
		writeHintFile(t, nested, "commands:\n  - pattern: inner\n")

		hf := Discover(ctx, nested)
		require.NotNil(t, hf)
		require.Len(t, hf.Commands, 1)
		assert.Equal(t, "inner", hf.Commands[0].Pattern)
	})

	t.Run("absent is nil, not an error", func(t *testing.T) {
		assert.Nil(t, Discover(ctx, t.TempDir()))
	})

	t.Run("malformed file counts as absent", func(t *testing.T) {
		dir := t.TempDir()
		writeHintFile(t, dir, "commands: [unclosed")
		assert.Nil(t, Discover(ctx, dir))
	})
}

func ptr[T any](v T) *T {
	return &v
}
