package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// DependencyKind discriminates the three dependency shapes.
type DependencyKind int

// Dependency kinds.
const (
	// DependencyFile is a single file, tracked by path.
	DependencyFile DependencyKind = iota

	// DependencyFileSet is a glob pattern expanded relative to the base
	// directory on every evaluation, so files appearing or disappearing
	// change the match set.
	DependencyFileSet

	// DependencyLines is a single file filtered to the lines matching a
	// regular expression.
	DependencyLines
)

// LinePattern selects a subset of lines within a file.
type LinePattern struct {
	File    string `yaml:"file"`
	Pattern string `yaml:"pattern"`
}

// Dependency is one declared invalidation input of a command rule.
// The zero value is not valid; dependencies are built by UnmarshalYAML.
type Dependency struct {
	Kind  DependencyKind
	File  string      // DependencyFile
	Glob  string      // DependencyFileSet
	Lines LinePattern // DependencyLines
}

// UnmarshalYAML derives the dependency kind from which field is present.
// Exactly one of file, files or lines must be set; anything else is
// rejected rather than guessed.
func (d *Dependency) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		File  *string      `yaml:"file"`
		Files *string      `yaml:"files"`
		Lines *LinePattern `yaml:"lines"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	declared := 0
	if aux.File != nil {
		declared++
		d.Kind = DependencyFile
		d.File = *aux.File
	}
	if aux.Files != nil {
		declared++
		d.Kind = DependencyFileSet
		d.Glob = *aux.Files
	}
	if aux.Lines != nil {
		declared++
		d.Kind = DependencyLines
		d.Lines = *aux.Lines
	}

	if declared != 1 {
		return fmt.Errorf("%w (line %d)", ErrAmbiguousDependency, value.Line)
	}
	return nil
}

// Files enumerates the paths this dependency refers to. Single-file and
// line dependencies return the declared path joined with baseDir; file
// sets return every matching file under baseDir in lexical walk order.
func (d *Dependency) Files(baseDir string) ([]string, error) {
	switch d.Kind {
	case DependencyFileSet:
		return d.expandGlob(baseDir)
	case DependencyLines:
		return []string{filepath.Join(baseDir, d.Lines.File)}, nil
	default:
		return []string{filepath.Join(baseDir, d.File)}, nil
	}
}

// expandGlob walks baseDir and returns files whose path relative to
// baseDir matches the glob pattern. An invalid pattern matches nothing.
func (d *Dependency) expandGlob(baseDir string) ([]string, error) {
	g, err := glob.Compile(d.Glob, '/')
	if err != nil {
		return nil, nil
	}

	var matches []string
	walkErr := filepath.WalkDir(baseDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(baseDir, path)
		if relErr != nil {
			return relErr
		}
		if g.Match(filepath.ToSlash(rel)) {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("expanding glob %q under %s: %w", d.Glob, baseDir, walkErr)
	}
	return matches, nil
}

// ContentDigest computes the content hash of this dependency.
//
// Single file: SHA-256 of the raw bytes; the file must exist. File set:
// SHA-256 of the concatenated per-file hex digests in enumeration order,
// where files that vanished since matching contribute nothing. Lines:
// SHA-256 of the lines matching the pattern, each followed by a newline;
// an invalid pattern matches no lines rather than failing the whole
// computation.
func (d *Dependency) ContentDigest(baseDir string) (string, error) {
	switch d.Kind {
	case DependencyFileSet:
		return d.fileSetDigest(baseDir)
	case DependencyLines:
		return d.lineDigest(baseDir)
	default:
		data, err := os.ReadFile(filepath.Join(baseDir, d.File))
		if err != nil {
			return "", fmt.Errorf("reading dependency file: %w", err)
		}
		return hexDigest(data), nil
	}
}

func (d *Dependency) fileSetDigest(baseDir string) (string, error) {
	paths, err := d.Files(baseDir)
	if err != nil {
		return "", err
	}

	var combined strings.Builder
	for _, path := range paths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			if os.IsNotExist(readErr) {
				continue
			}
			return "", fmt.Errorf("reading dependency file: %w", readErr)
		}
		combined.WriteString(hexDigest(data))
	}

	return hexDigest([]byte(combined.String())), nil
}

func (d *Dependency) lineDigest(baseDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, d.Lines.File))
	if err != nil {
		return "", fmt.Errorf("reading dependency file: %w", err)
	}

	return hexDigest([]byte(d.matchingLines(string(data)))), nil
}

// matchingLines returns the lines of content matching the pattern, each
// followed by a newline. An invalid pattern matches no lines.
func (d *Dependency) matchingLines(content string) string {
	if content == "" {
		return ""
	}
	re, err := regexp.Compile(d.Lines.Pattern)
	if err != nil {
		return ""
	}

	var matched strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		if re.MatchString(line) {
			matched.WriteString(line)
			matched.WriteByte('\n')
		}
	}
	return matched.String()
}

func hexDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
