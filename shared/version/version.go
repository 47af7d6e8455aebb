// Package version provides version information for the application.
package version

import "fmt"

// Version is set at build time via ldflags.
var Version = "dev"

// BuildDate is set at build time via ldflags.
var BuildDate = "unknown"

// GitURL is the repository URL.
const GitURL = "https://codefloe.com/pat-s/stacker"

// String returns the version string with build date.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, BuildDate)
}

// Full returns the full version string with git URL.
func Full() string {
	return fmt.Sprintf("stacker %s (%s)", Version, GitURL)
}
