// Package buildinfo carries version information stamped at link time:
//
//	go build -ldflags "-X github.com/bploeckelman/nodes/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/bploeckelman/nodes/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/bploeckelman/nodes/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", version(), Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", version(), Commit, Date)
}

// UserAgent identifies the binary in stored document metadata and traces.
func UserAgent() string {
	return "nodes/" + version()
}

// version falls back to the module version when installed with go install.
func version() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}
