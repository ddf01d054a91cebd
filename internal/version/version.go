package version

// Set at build time via -ldflags "-X .../internal/version.Version=... -X .../internal/version.Commit=...".
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
)
