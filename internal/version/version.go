// Package version holds build metadata injected by the linker.
package version

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String returns the human-readable version line.
func String() string {
	return Version + " (" + CommitHash + ", " + BuildDate + ")"
}
