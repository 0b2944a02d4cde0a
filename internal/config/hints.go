// Package config loads and resolves the cachecmd rule configuration
// (the "hint file").
//
// A hint file declares, per command pattern, the inputs that should
// invalidate a cached result: environment variables, file dependencies
// and output artifacts, plus TTL overrides. The file is discovered by
// walking parent directories from the working directory; its absence is
// not an error.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/cachecmd/cachecmd/internal/logging"
)

// HintFileName is the configuration filename recognized during discovery.
const HintFileName = ".cachecmd.yaml"

// HintFile is the parsed rule configuration.
type HintFile struct {
	// Default applies when no command rule matches. It carries only a
	// TTL and environment variable names, never dependencies.
	Default DefaultSettings `yaml:"default"`

	// Commands are matched in declaration order; the first match wins.
	Commands []CommandHint `yaml:"commands"`
}

// DefaultSettings is the fallback section of a hint file.
type DefaultSettings struct {
	// TTL is the default time-to-live in seconds. Nil means no default.
	TTL *uint64 `yaml:"ttl"`

	// IncludeEnv lists environment variable names folded into every
	// fingerprint for commands without a matching rule.
	IncludeEnv []string `yaml:"include_env"`
}

// CommandHint associates a command pattern with cache-sensitivity rules.
type CommandHint struct {
	// Pattern is matched against the full command string using glob
	// syntax. A syntactically invalid pattern degrades to exact string
	// equality for this rule only.
	Pattern string `yaml:"pattern"`

	// TTL overrides the default TTL for matching commands, in seconds.
	TTL *uint64 `yaml:"ttl"`

	// IncludeEnv lists environment variable names folded into the
	// fingerprint, in declaration order.
	IncludeEnv []string `yaml:"include_env"`

	// DependsOn lists file dependencies, evaluated in declaration order.
	DependsOn []Dependency `yaml:"depends_on"`

	// Artifacts lists filesystem outputs captured and restored alongside
	// the cached stdout.
	Artifacts []Artifact `yaml:"artifacts"`
}

// Matches reports whether command matches this rule's pattern.
func (c *CommandHint) Matches(command string) bool {
	g, err := glob.Compile(c.Pattern)
	if err != nil {
		return c.Pattern == command
	}
	return g.Match(command)
}

// FindMatching returns the first command rule whose pattern matches
// command, or nil when none does. Safe on a nil receiver.
func (h *HintFile) FindMatching(command string) *CommandHint {
	if h == nil {
		return nil
	}
	for i := range h.Commands {
		if h.Commands[i].Matches(command) {
			return &h.Commands[i]
		}
	}
	return nil
}

// EffectiveTTL resolves the TTL for command: an explicit TTL on the
// matching rule wins, then the default section's TTL, then fallback.
// Nil means no expiry (cache forever). Safe on a nil receiver.
func (h *HintFile) EffectiveTTL(command string, fallback *time.Duration) *time.Duration {
	if h == nil {
		return fallback
	}
	if hint := h.FindMatching(command); hint != nil && hint.TTL != nil {
		d := time.Duration(*hint.TTL) * time.Second
		return &d
	}
	if h.Default.TTL != nil {
		d := time.Duration(*h.Default.TTL) * time.Second
		return &d
	}
	return fallback
}

// Load parses a hint file from disk.
func Load(path string) (*HintFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hint file %s: %w", path, err)
	}

	var hf HintFile
	if err := yaml.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("parsing hint file %s: %w", path, err)
	}

	hf.Default.IncludeEnv = dedupe(hf.Default.IncludeEnv)
	for i := range hf.Commands {
		hf.Commands[i].IncludeEnv = dedupe(hf.Commands[i].IncludeEnv)
	}

	return &hf, nil
}

// Discover walks parent directories starting at startDir until a hint
// file is found. A missing hint file returns nil; a malformed one logs a
// warning and is treated the same as a missing one, so a broken
// configuration never disables the tool entirely.
func Discover(ctx context.Context, startDir string) *HintFile {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		dir = startDir
	}

	for {
		path := filepath.Join(dir, HintFileName)
		if _, statErr := os.Stat(path); statErr == nil {
			hf, loadErr := Load(path)
			if loadErr != nil {
				logger := logging.FromContext(ctx)
				logger.Warn().
					Str("component", "config").
					Err(loadErr).
					Str("path", path).
					Msg("ignoring malformed hint file")
				return nil
			}
			return hf
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// ErrAmbiguousDependency is returned when a depends_on entry does not
// name exactly one of the file / files / lines shapes.
var ErrAmbiguousDependency = errors.New("dependency must declare exactly one of file, files or lines")

// dedupe removes duplicate names while preserving first-occurrence order.
func dedupe(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
