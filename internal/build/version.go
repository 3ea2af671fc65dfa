package build

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at link time, e.g. -ldflags "-X github.com/rohmanhakim/parks-explorer/internal/build.Version=1.0.0".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Summary is the line printed by the version command. A binary installed
// with `go install` has no linker flags, so the module version is used instead.
func Summary() string {
	version := FullVersion()
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	return fmt.Sprintf("parks-explorer %s (built %s with %s)", version, BuildTime, runtime.Version())
}
