// Package version reports the build that is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags. When unset, the VCS stamp the Go
// toolchain embeds is used instead.
var (
	Commit    = ""
	BuildTime = ""
)

// String returns "portplan dev (commit: abc1234, built: ...)".
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		c, b := vcsStamp()
		if commit == "" {
			commit = c
		}
		if built == "" {
			built = b
		}
	}
	return fmt.Sprintf("portplan dev (commit: %s, built: %s)", short(commit), built)
}

func vcsStamp() (commit, built string) {
	commit, built = "unknown", "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			built = s.Value
		}
	}
	return
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
