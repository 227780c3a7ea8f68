// Package build provides version and build information for gitpaper.
// It has no dependencies on other internal packages.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// UserAgent is the User-Agent sent to remote APIs.
func UserAgent() string {
	return fmt.Sprintf("gitpaper/%s (+https://github.com/okineadev/gitpaper)", Version)
}

// Platform returns GOOS/GOARCH.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
