// Package version carries the build metadata stamped into the kielabel binary.
package version

import "fmt"

// Build-time variables set by ldflags:
//
//	-X github.com/MeKo-Tech/kielabel/internal/version.Version=v1.2.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// String formats the build metadata for --version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}
