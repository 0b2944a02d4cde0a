// Package cache implements the command memoization engine.
//
// A cache entry is identified by a fingerprint: a SHA-256 digest of the
// command text combined with the environment variables and file
// dependencies declared for it in the hint file. Key features:
//   - File-based storage under the user cache directory, one entry
//     directory per fingerprint
//   - Layered TTL resolution (rule, hint-file default, caller fallback)
//   - Directory artifact snapshots captured and restored in lockstep
//     with cache misses and hits
//
// The engine is synchronous and invocation-scoped: every run rebuilds
// its state from the filesystem and discards it at exit.
package cache
