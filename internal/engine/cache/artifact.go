package cache

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cachecmd/cachecmd/internal/config"
)

// Manager captures and restores artifact snapshots. Each snapshot is a
// gzip-compressed tar archive stored next to the owning cache entry,
// one archive per (fingerprint, artifact index) pair.
//
// Archives are produced and consumed by the system tar so snapshots
// stay inspectable with standard tooling.
type Manager struct {
	store *Store
}

// NewManager creates a manager writing archives into store.
func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// ArchivePath returns the archive location for one artifact of an entry.
func (m *Manager) ArchivePath(cacheID string, index int) string {
	return filepath.Join(m.store.ArtifactDir(cacheID), fmt.Sprintf("artifact-%d.tar.gz", index))
}

// CaptureDirectory archives dirPath, preserving its basename so the
// archive restores in place. The directory must exist. A tar failure
// surfaces tar's stderr verbatim.
func (m *Manager) CaptureDirectory(dirPath, cacheID string, index int) error {
	if _, err := os.Stat(dirPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory not found: %s", dirPath)
		}
		return fmt.Errorf("checking artifact directory: %w", err)
	}

	archivePath := m.ArchivePath(cacheID, index)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o750); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	parent := filepath.Dir(dirPath)
	name := filepath.Base(dirPath)
	if err := runTar("-czf", archivePath, "-C", parent, name); err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	return nil
}

// RestoreDirectory unpacks the snapshot for (cacheID, index) into
// dirPath's parent, expecting the archive to reproduce dirPath's
// basename. Anything currently at dirPath is removed first so stale
// live state is never merged with restored content. Returns false
// without error when no snapshot exists: a cold cache is not a failure.
func (m *Manager) RestoreDirectory(dirPath, cacheID string, index int) (bool, error) {
	archivePath := m.ArchivePath(cacheID, index)
	if _, err := os.Stat(archivePath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking archive: %w", err)
	}

	if err := os.RemoveAll(dirPath); err != nil {
		return false, fmt.Errorf("removing stale artifact directory: %w", err)
	}

	parent := filepath.Dir(dirPath)
	if err := runTar("-xzf", archivePath, "-C", parent); err != nil {
		return false, fmt.Errorf("extracting archive: %w", err)
	}
	return true, nil
}

// Capture snapshots one declared artifact. Artifact kinds other than
// directory are accepted but not captured yet.
func (m *Manager) Capture(art *config.Artifact, cacheID string, index int, baseDir string) error {
	if art.Type != config.ArtifactDirectory {
		return nil
	}
	return m.CaptureDirectory(filepath.Join(baseDir, art.Path), cacheID, index)
}

// Restore reinstates one declared artifact. Artifact kinds other than
// directory report not-restored.
func (m *Manager) Restore(art *config.Artifact, cacheID string, index int, baseDir string) (bool, error) {
	if art.Type != config.ArtifactDirectory {
		return false, nil
	}
	return m.RestoreDirectory(filepath.Join(baseDir, art.Path), cacheID, index)
}

// HasSnapshot reports whether a snapshot exists for (cacheID, index).
func (m *Manager) HasSnapshot(cacheID string, index int) bool {
	_, err := os.Stat(m.ArchivePath(cacheID, index))
	return err == nil
}

// runTar invokes the system tar, attaching its stderr to any failure.
func runTar(args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.Command("tar", args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("tar: %s", msg)
		}
		return fmt.Errorf("tar: %w", err)
	}
	return nil
}
