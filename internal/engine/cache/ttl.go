package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Environment variables honored by the engine and CLI.
const (
	// EnvCacheDir overrides the cache root directory.
	EnvCacheDir = "CACHECMD_CACHE_DIR"

	// EnvLogLevel overrides the log level.
	EnvLogLevel = "CACHECMD_LOG_LEVEL"

	// EnvLogFormat overrides the log format (console or json).
	EnvLogFormat = "CACHECMD_LOG_FORMAT"
)

// hoursPerDay is used for duration formatting calculations.
const hoursPerDay = 24

// DefaultDir returns the cache root: $CACHECMD_CACHE_DIR when set,
// otherwise <user cache dir>/cachecmd, falling back to .cachecmd in the
// working directory when no user cache directory is known.
func DefaultDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".cachecmd"
	}
	return filepath.Join(base, "cachecmd")
}

// ParseTTL parses a TTL given either as integer seconds ("300") or as a
// Go duration string ("5m", "1h30m"). TTLs must be positive.
func ParseTTL(s string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("TTL must be positive, got %d", seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("TTL must be positive, got %s", d)
	}
	return d, nil
}

// FormatDuration formats a duration in a compact human-readable way.
// Examples: "45s", "30m", "1h30m", "2d".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
