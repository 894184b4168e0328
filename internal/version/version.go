// Package version holds build-time version information for the loom binary.
package version

import "runtime"

var (
	// Version is the semantic version - set at build time via ldflags
	Version = "dev"
	// GitCommit is the git commit hash - set at build time via ldflags
	GitCommit = "unknown"
	// BuildDate is the build timestamp - set at build time via ldflags
	BuildDate = "unknown"
)

// GoVersion returns the Go runtime version the binary was built with.
func GoVersion() string {
	return runtime.Version()
}
