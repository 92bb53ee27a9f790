// Package misc keeps build identification helpers in one place so both CLI
// and logging can report consistent values.
package misc

import (
	"runtime/debug"
	"sync"
)

// set at build time via -ldflags, otherwise derived from build info
var (
	appName = "epc"
	version = ""
	gitHash = ""
)

var readBuildInfo = sync.OnceFunc(func() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if version == "" && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && gitHash == "" {
			gitHash = s.Value
		}
	}
})

// GetAppName returns short program name used for logs, temporary files and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	readBuildInfo()
	if version == "" {
		return "(devel)"
	}
	return version
}

// GetGitHash returns VCS revision the program was built from.
func GetGitHash() string {
	readBuildInfo()
	if gitHash == "" {
		return "unknown"
	}
	return gitHash
}
