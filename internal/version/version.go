// Package version holds the server version.
package version

// Version is the service current released version.
var Version = "0.3.0"

// DevVersion is the service current development version.
var DevVersion = "0.3.0"

// GetCurrentVersion returns the version for the given run mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}
