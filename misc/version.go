// Package misc keeps build time information.
package misc

import (
	"runtime/debug"
)

// Set by the linker: -ldflags "-X cstrgen/misc.version=... -X cstrgen/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
)

const appName = "cstrgen"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns hash the binary was built from, falling back to VCS
// information embedded by the go tool.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
