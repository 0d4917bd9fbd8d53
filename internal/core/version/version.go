// Package version reports build metadata stamped in at link time
package version

// BuildInfo is the build metadata served by /meta/version
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set with -ldflags, e.g.
// -X 'github.com/TanvirAuntu75/snapverse/internal/core/version.version=v0.3.0'
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build metadata for the named binary
func Info(service string) BuildInfo {
	return BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
}

// Version returns the release tag
func Version() string { return version }
