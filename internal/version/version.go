package version

import (
	"fmt"
	"runtime/debug"
)

// AppVersion is embedded into export documents.
const AppVersion = "3.2.0"

// Set at build time via ldflags; otherwise filled from the module's VCS info.
var (
	Commit    = ""
	BuildTime = ""
)

// String returns the version line shown by `shiftlog --version`.
func String() string {
	commit, built := buildInfo()
	return fmt.Sprintf("shiftlog %s (commit: %s, built: %s)", AppVersion, commit, built)
}

func buildInfo() (commit, built string) {
	commit, built = Commit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && built == "":
				built = s.Value
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return commit, built
}
