package postmark

import (
	"runtime/debug"
)

// Version information for the library.
// The value below is a fallback for development builds; release builds
// inject it via ldflags.
var Version = "dev"

// GetVersion returns the current version string, preferring the module
// version recorded in the build info when available.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == "github.com/lattiq/postmark" && dep.Version != "" {
				return dep.Version
			}
		}
	}
	return Version
}

// defaultUserAgent builds the User-Agent header sent with every request.
func defaultUserAgent() string {
	return "lattiq-postmark/" + GetVersion() + " (+https://github.com/lattiq/postmark)"
}
