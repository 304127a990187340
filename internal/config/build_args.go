package config

import "fmt"

// The following vars are set during build via ldflags, e.g.
// go build -ldflags="-X github/chapool/intent-wallet/internal/config.ModuleName=intent-wallet"
var (
	ModuleName = "build.local/misses/ldflags"
	Commit     = "< 40 chars git commit hash via ldflags >"
	BuildDate  = "1970-01-01-00:00:00"
)

// GetFormattedBuildArgs returns the version line printed by app --version.
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
