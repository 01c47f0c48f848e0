package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version and Commit are set with
//
//	-ldflags "-X github.com/cuenta-app/cuenta/internal/version.Version=v1.2.3"
//
// Unset values come from the VCS stamp of the build, or "dev"/"unknown".
var (
	Version = ""
	Commit  = ""
)

func init() {
	rev, dirty := vcsRevision()
	if Commit == "" {
		Commit = "unknown"
		if rev != "" {
			Commit = rev
			if dirty {
				Commit += "-dirty"
			}
		}
	}
	if Version == "" {
		Version = "dev"
	}
}

// vcsRevision returns the short commit hash recorded by the go tool
func vcsRevision() (rev string, dirty bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 7 {
				rev = rev[:7]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return rev, dirty
}

// Full is the version line printed by the version commands
func Full() string {
	return fmt.Sprintf("%s (commit: %s, %s)", Version, Commit, runtime.Version())
}

// UserAgent identifies a cuenta binary in HTTP requests
func UserAgent(binary string) string {
	return fmt.Sprintf("%s/%s (%s/%s)", binary, Version, runtime.GOOS, runtime.GOARCH)
}
