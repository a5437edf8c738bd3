// Package version provides build-time metadata for the CLI application.
//
// All variables can be overridden at build time using -ldflags:
//
//	go build -ldflags "\
//	  -X 'github.com/slashdevops/hardwareid/internal/version.Version=1.0.0' \
//	  -X 'github.com/slashdevops/hardwareid/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)'"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// unset is the Version value of a build without ldflags.
const unset = "0.0.0"

var (
	// Version is the current version of the application
	Version = unset

	// BuildDate is the date the application was built
	BuildDate = "1970-01-01T00:00:00Z"

	// GitCommit is the commit hash the application was built from
	GitCommit = ""

	// GitBranch is the branch the application was built from
	GitBranch = ""

	// BuildUser is the user that built the application
	BuildUser = ""

	// GoVersion is the version of Go used to build the application
	GoVersion = runtime.Version()
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Short returns "<app> version: <version>". Builds installed with
// `go install` carry no ldflags, so the module version is used instead.
func Short(app string) string {
	v := Version
	if v == unset {
		if info, ok := readBuildInfo(); ok && info.Main.Version != "" {
			v = info.Main.Version
		}
	}

	return fmt.Sprintf("%s version: %s", app, v)
}

// Long returns the version line followed by build metadata.
func Long(app string) string {
	var sb strings.Builder

	if Version == unset {
		if info, ok := readBuildInfo(); ok {
			fmt.Fprintf(&sb, "%s version: %s, ", app, info.Main.Version)
			fmt.Fprintf(&sb, "Git commit: %s, ", info.Main.Sum)
			fmt.Fprintf(&sb, "Go version: %s", info.GoVersion)

			return sb.String()
		}
	}

	fmt.Fprintf(&sb, "%s version: %s, ", app, Version)
	fmt.Fprintf(&sb, "Build date: %s, ", BuildDate)
	fmt.Fprintf(&sb, "Build user: %s, ", BuildUser)
	fmt.Fprintf(&sb, "Git commit: %s, ", GitCommit)
	fmt.Fprintf(&sb, "Git branch: %s, ", GitBranch)
	fmt.Fprintf(&sb, "Go version: %s", GoVersion)

	return sb.String()
}
