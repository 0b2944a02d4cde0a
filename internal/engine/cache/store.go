package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// entryFileName is the metadata file inside each entry directory.
const entryFileName = "entry.json"

// artifactsDirName is the per-entry directory holding artifact archives.
const artifactsDirName = "artifacts"

// Common store errors.
var (
	ErrEntryNotFound = errors.New("cache entry not found")
	ErrInvalidID     = errors.New("cache id cannot be empty")
)

// Store persists cache entries on disk, one directory per fingerprint:
//
//	<root>/<fingerprint>/entry.json
//	<root>/<fingerprint>/artifacts/artifact-<index>.tar.gz
//
// The store applies no locking across processes; concurrent invocations
// against the same fingerprint may race, which is accepted for a
// single-user CLI.
type Store struct {
	root string
}

// NewStore creates a store rooted at root, creating the directory if
// needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// EntryDir returns the directory holding the entry for id.
func (s *Store) EntryDir(id string) string {
	return filepath.Join(s.root, id)
}

// ArtifactDir returns the directory holding artifact archives for id.
func (s *Store) ArtifactDir(id string) string {
	return filepath.Join(s.EntryDir(id), artifactsDirName)
}

// Get loads the entry for id. Returns ErrEntryNotFound when no entry
// exists.
func (s *Store) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	data, err := os.ReadFile(filepath.Join(s.EntryDir(id), entryFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshalling cache entry: %w", err)
	}
	return &entry, nil
}

// Put persists entry under id, overwriting any previous entry. The
// metadata file is written to a temporary name and renamed so readers
// never observe a partial entry.
func (s *Store) Put(id string, entry *Entry) error {
	if id == "" {
		return ErrInvalidID
	}

	dir := s.EntryDir(id)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating entry directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling cache entry: %w", err)
	}

	path := filepath.Join(dir, entryFileName)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for id, including its artifact archives.
// Returns true when an entry existed.
func (s *Store) Delete(id string) (bool, error) {
	if id == "" {
		return false, ErrInvalidID
	}

	dir := s.EntryDir(id)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking cache entry: %w", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("removing cache entry: %w", err)
	}
	return true, nil
}

// Clear removes every entry in the store and returns the number removed.
func (s *Store) Clear() (int, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	removed := 0
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, de.Name())); err != nil {
			return removed, fmt.Errorf("removing cache entry %s: %w", de.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// List returns every readable entry, newest first. Entry directories
// with missing or unparsable metadata are skipped.
func (s *Store) List() ([]*Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	var entries []*Entry
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		entry, getErr := s.Get(de.Name())
		if getErr != nil {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
