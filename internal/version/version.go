// Package version exposes the mealguard build stamp. The variables are set
// with -ldflags "-X github.com/mealguard-dev/mealguard/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes one build of the binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build stamp. Builds without ldflags fall back to the
// module version recorded by the go tool, when there is one.
func Get() Info {
	v := Version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return Info{
		Version:   v,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return i.Version
}

// Full is the one-line form printed by `mealguard version --full`.
func (i Info) Full() string {
	return fmt.Sprintf("mealguard %s (commit %s, built %s) %s %s",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}

// UserAgent identifies the service to brokers and object stores.
func (i Info) UserAgent() string {
	return "mealguard/" + i.Version
}
