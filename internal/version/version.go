// Package version holds build-time identification for the blink-scan
// binary, injected via -ldflags at release build time.
package version

var (
	// Version is the current application version.
	Version = "dev"
	// GitSHA is the git commit SHA.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String renders a single-line version banner for --version output.
func String() string {
	return Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
