// Package version provides build version information for usersvc.
package version

// Overridden at build time:
// go build -ldflags "-X usersvc/internal/version.Version=1.0.0 -X usersvc/internal/version.Commit=abc123"
var (
	// Version is the semantic version of usersvc
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns a short version string, with the abbreviated commit when known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "usersvc version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
