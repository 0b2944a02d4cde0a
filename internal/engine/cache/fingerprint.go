package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"path/filepath"

	"github.com/cachecmd/cachecmd/internal/config"
)

// Fingerprint derives the cache key for command: a lowercase hex SHA-256
// digest of the command text combined with its declared cache inputs.
//
// When a command rule matches, each named environment variable that is
// currently set contributes "name=value" in the rule's declared order
// (unset variables contribute nothing: presence is meaningful, absence
// is not), followed by each dependency's contribution in declared
// order. Single-file and file-set dependencies contribute the file's
// modification time in epoch seconds, trading content fidelity for
// cheap stat calls; only line dependencies contribute a content-derived
// digest. When no rule matches, only the default environment variable
// list applies and dependencies are not consulted.
//
// Dependency files that are missing or unreadable contribute nothing,
// so a half-built workspace still fingerprints deterministically.
func Fingerprint(command string, hints *config.HintFile, baseDir string) string {
	h := sha256.New()
	h.Write([]byte(command))

	if hints != nil {
		if hint := hints.FindMatching(command); hint != nil {
			hashEnv(h, hint.IncludeEnv)
			for i := range hint.DependsOn {
				hashDependency(h, &hint.DependsOn[i], baseDir)
			}
		} else {
			hashEnv(h, hints.Default.IncludeEnv)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

// hashEnv feeds name=value for each set variable into h.
func hashEnv(h hash.Hash, names []string) {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			fmt.Fprintf(h, "%s=%s", name, value)
		}
	}
}

// hashDependency feeds one dependency's contribution into h.
func hashDependency(h hash.Hash, dep *config.Dependency, baseDir string) {
	switch dep.Kind {
	case config.DependencyFile:
		hashModTime(h, dep.File, filepath.Join(baseDir, dep.File))
	case config.DependencyFileSet:
		paths, err := dep.Files(baseDir)
		if err != nil {
			return
		}
		for _, path := range paths {
			hashModTime(h, path, path)
		}
	case config.DependencyLines:
		digest, err := dep.ContentDigest(baseDir)
		if err != nil {
			return
		}
		h.Write([]byte(digest))
	}
}

// hashModTime feeds label=mtimeSeconds into h when path exists.
func hashModTime(h hash.Hash, label, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	fmt.Fprintf(h, "%s=%d", label, info.ModTime().Unix())
}
