// Package build holds version information injected at link time.
package build

// These variables are set via -ldflags at release time.
var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
