// Package version exposes the build version of the cachecmd binary.
package version

// Version is set at build time via -ldflags. Defaults to "dev" for
// local builds.
//
//nolint:gochecknoglobals // Overridden by the linker at release time.
var Version = "dev"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
