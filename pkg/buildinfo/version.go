// Package buildinfo reports the sitegraph version.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/sitegraph/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/sitegraph/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/sitegraph
//
// Unstamped binaries (go install, go run) fall back to the module version
// and VCS settings the toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var fillOnce sync.Once

// fill copies embedded build settings into whichever variables were not
// stamped.
func fill() {
	fillOnce.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fromBuild(bi)
	})
}

func fromBuild(bi *debug.BuildInfo) {
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	dirty := false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && Commit != "none" {
		Commit += "-dirty"
	}
}

// Info returns version, commit and build date.
func Info() (version, commit, date string) {
	fill()
	return Version, Commit, Date
}

// String returns the build information on three lines.
func String() string {
	v, c, d := Info()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", v, c, d)
}

// Template returns the cobra version template.
func Template() string {
	v, c, d := Info()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", v, c, d)
}
