// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Vidlink is the canonical application identifier used for filesystem paths and CLI branding.
	Vidlink = "vidlink"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the default HTTP User-Agent string used for requests to the proxy and parsing services.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Release locations.
const (
	Repository  = "https://github.com/vidlink-cli/vidlink"
	Releases    = Repository + "/releases"
	ReleasesAPI = "https://api.github.com/repos/vidlink-cli/vidlink/releases/latest"
)
