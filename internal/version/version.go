package version

import "strconv"

// Set with -ldflags "-X github.com/ericogr/fleet-clash/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Build describes the running server binary.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date,omitempty"`
	Dirty   bool   `json:"dirty"`
}

// Current returns the build metadata. An unparsable Dirty flag counts as
// a clean build.
func Current() Build {
	dirty, _ := strconv.ParseBool(Dirty)
	return Build{Version: Version, Commit: Commit, Date: Date, Dirty: dirty}
}
