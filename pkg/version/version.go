// Package version exposes build metadata for the arbor binary.
package version

// Populated at build time via -ldflags.
var (
	// Version is the release version of the binary.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
