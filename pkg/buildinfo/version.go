// Package buildinfo reports which footprint build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/footprint/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/footprint/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/footprint/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the module version and VCS settings the Go
// toolchain embeds, so "go install" binaries still report a commit.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Stamped by ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build information.
type Info struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Modified bool   `json:"modified,omitempty"`
}

var embedded = sync.OnceValue(func() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}
	}
	return fromBuildInfo(bi)
})

func fromBuildInfo(bi *debug.BuildInfo) Info {
	var info Info
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.Date = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Get returns the stamped values, filling unstamped ones from the binary.
func Get() Info {
	return merge(Info{Version: Version, Commit: Commit, Date: Date}, embedded())
}

func merge(stamped, fallback Info) Info {
	out := stamped
	if out.Version == "dev" && fallback.Version != "" {
		out.Version = fallback.Version
	}
	if out.Commit == "none" && fallback.Commit != "" {
		out.Commit = fallback.Commit
		out.Modified = fallback.Modified
	}
	if out.Date == "unknown" && fallback.Date != "" {
		out.Date = fallback.Date
	}
	return out
}

func (i Info) commit() string {
	if i.Modified {
		return i.Commit + "-dirty"
	}
	return i.Commit
}

// String returns the multi-line form printed by "footprint version".
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.commit(), i.Date)
}

// Template returns the cobra version template.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.commit(), i.Date)
}
