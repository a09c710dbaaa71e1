// Package version provides build-time version information.
package version

// Set at build time with -ldflags "-X parcel-labeler/internal/version.Version=...".
var (
	// Version is the semantic version
	Version = "1.0.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String formats the version for the About dialog and logs.
func String() string {
	if GitCommit == "unknown" {
		return "v" + Version
	}
	return "v" + Version + " (" + GitCommit + ", " + BuildTime + ")"
}
