package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cachecmd/cachecmd/internal/config"
	"github.com/cachecmd/cachecmd/internal/logging"
)

// ErrEmptyCommand is returned when the command string is empty. The
// command is rejected before any side effect.
var ErrEmptyCommand = errors.New("empty command")

// Cache orchestrates one invocation of the memoization engine: it
// resolves the fingerprint, decides hit/miss/expired, executes the
// command on a miss and keeps artifact snapshots in lockstep with the
// cached stdout.
//
// A Cache is invocation-scoped. Its hint file reflects the working
// directory at construction time and changes only through Reload.
type Cache struct {
	store     *Store
	artifacts *Manager
	runner    Runner
	hints     *config.HintFile
	workDir   string

	// memory short-circuits repeated lookups within one invocation.
	memory map[string]string
}

// Options configures New. Zero values select defaults.
type Options struct {
	// Dir is the cache root. Empty uses DefaultDir().
	Dir string

	// WorkDir is the base directory for hint discovery and dependency
	// resolution. Empty uses the current working directory.
	WorkDir string

	// Runner executes external commands. Nil uses NewExecRunner().
	Runner Runner

	// Hints supplies an already-parsed rule set, skipping discovery.
	Hints *config.HintFile
}

// New builds a Cache. When opts.Hints is nil the hint file is
// discovered by walking parents of the working directory.
func New(ctx context.Context, opts Options) (*Cache, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		workDir = wd
	}

	store, err := NewStore(dir)
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = NewExecRunner()
	}

	hints := opts.Hints
	if hints == nil {
		hints = config.Discover(ctx, workDir)
	}

	return &Cache{
		store:     store,
		artifacts: NewManager(store),
		runner:    runner,
		hints:     hints,
		workDir:   workDir,
		memory:    make(map[string]string),
	}, nil
}

// Run executes command with caching. On a hit the stored stdout is
// returned and declared artifacts are restored; on a miss (or when
// force is set, or the entry outlived its TTL) the command is executed,
// its stdout persisted and declared artifacts captured.
//
// The returned stdout is valid even when err reports an artifact
// failure: a capture failure after a successful execution leaves the
// stdout result cached.
func (c *Cache) Run(ctx context.Context, command string, ttlFallback *time.Duration, force bool) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", ErrEmptyCommand
	}

	logger := logging.FromContext(ctx)
	id := Fingerprint(command, c.hints, c.workDir)
	hint := c.hints.FindMatching(command)

	if !force {
		if stdout, ok := c.memory[id]; ok {
			return stdout, c.restoreArtifacts(ctx, hint, id)
		}

		entry, err := c.store.Get(id)
		switch {
		case err == nil:
			ttl := c.hints.EffectiveTTL(command, ttlFallback)
			if !entry.Expired(ttl) {
				logger.Debug().Str("fingerprint", id).Msg("cache hit")
				c.memory[id] = entry.Stdout
				return entry.Stdout, c.restoreArtifacts(ctx, hint, id)
			}
			logger.Debug().
				Str("fingerprint", id).
				Dur("age", entry.Age()).
				Msg("cache entry expired")
		case errors.Is(err, ErrEntryNotFound):
			logger.Debug().Str("fingerprint", id).Msg("cache miss")
		default:
			return "", err
		}
	}

	fields := strings.Fields(command)
	stdout, err := c.runner.Run(ctx, fields[0], fields[1:])
	if err != nil {
		return "", err
	}

	c.memory[id] = stdout
	if err := c.store.Put(id, NewEntry(command, stdout)); err != nil {
		return stdout, err
	}

	return stdout, c.captureArtifacts(ctx, hint, id)
}

// EffectiveTTL resolves the TTL that would apply to command, layering
// the matching rule's TTL over the hint-file default over fallback.
// Nil means cache forever.
func (c *Cache) EffectiveTTL(command string, fallback *time.Duration) *time.Duration {
	return c.hints.EffectiveTTL(command, fallback)
}

// Fingerprint returns the cache key for command under the current hint
// file and working directory.
func (c *Cache) Fingerprint(command string) string {
	return Fingerprint(command, c.hints, c.workDir)
}

// List returns all cached entries, newest first.
func (c *Cache) List() ([]*Entry, error) {
	return c.store.List()
}

// Clear removes the entry for command, or every entry when command is
// empty. Returns the number of entries removed.
func (c *Cache) Clear(command string) (int, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		c.memory = make(map[string]string)
		return c.store.Clear()
	}

	id := Fingerprint(command, c.hints, c.workDir)
	delete(c.memory, id)
	deleted, err := c.store.Delete(id)
	if err != nil {
		return 0, err
	}
	if deleted {
		return 1, nil
	}
	return 0, nil
}

// Reload re-discovers the hint file from the working directory. Useful
// when the configuration changed during the invocation's lifetime.
func (c *Cache) Reload(ctx context.Context) {
	c.hints = config.Discover(ctx, c.workDir)
}

// Hints returns the currently loaded hint file, or nil when none was
// found.
func (c *Cache) Hints() *config.HintFile {
	return c.hints
}

// restoreArtifacts reinstates every declared artifact for a hit.
// Restores always pay the remove+unpack cost: content equality with the
// live path is not checked.
func (c *Cache) restoreArtifacts(ctx context.Context, hint *config.CommandHint, id string) error {
	if hint == nil {
		return nil
	}

	logger := logging.FromContext(ctx)
	for i := range hint.Artifacts {
		restored, err := c.artifacts.Restore(&hint.Artifacts[i], id, i, c.workDir)
		if err != nil {
			return fmt.Errorf("restoring artifact %d: %w", i, err)
		}
		logger.Debug().
			Int("artifact", i).
			Bool("restored", restored).
			Str("fingerprint", id).
			Msg("artifact restore")
	}
	return nil
}

// captureArtifacts snapshots every declared artifact after a miss's
// execution. A declared source path that does not exist falls back to
// restoring a prior snapshot when one is available, so commands whose
// outputs were swept away still converge to the cached state.
func (c *Cache) captureArtifacts(ctx context.Context, hint *config.CommandHint, id string) error {
	if hint == nil {
		return nil
	}

	logger := logging.FromContext(ctx)
	for i := range hint.Artifacts {
		art := &hint.Artifacts[i]
		if art.Type != config.ArtifactDirectory {
			continue
		}

		source := c.artifactSourcePath(art)
		if _, err := os.Stat(source); err == nil {
			if captureErr := c.artifacts.Capture(art, id, i, c.workDir); captureErr != nil {
				return fmt.Errorf("capturing artifact %d: %w", i, captureErr)
			}
			logger.Debug().Int("artifact", i).Str("fingerprint", id).Msg("artifact captured")
			continue
		}

		if c.artifacts.HasSnapshot(id, i) {
			if _, restoreErr := c.artifacts.Restore(art, id, i, c.workDir); restoreErr != nil {
				return fmt.Errorf("restoring artifact %d: %w", i, restoreErr)
			}
			logger.Debug().Int("artifact", i).Str("fingerprint", id).Msg("artifact restored from prior snapshot")
		}
	}
	return nil
}

// artifactSourcePath resolves an artifact's live path under the working
// directory.
func (c *Cache) artifactSourcePath(art *config.Artifact) string {
	return filepath.Join(c.workDir, art.Path)
}
