// Package buildinfo reports which gcdash build is running.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/gcdash/gcdash/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/gcdash/gcdash/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/gcdash/gcdash/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/gcdash
//
// Unstamped builds fall back to the VCS settings the Go toolchain records.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the resolved build description.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Modified  bool
}

// Get resolves the build description, preferring ldflags values over the
// toolchain's vcs.revision and vcs.time settings.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = shortRevision(s.Value)
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// Template returns the cobra version template.
func Template() string {
	info := Get()
	commit := info.Commit
	if info.Modified {
		commit += " (modified)"
	}
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\ngo: %s\n", info.Version, commit, info.Date, info.GoVersion)
}
