// Package buildconfig exposes build metadata stamped at link time via
// -ldflags "-X .../buildconfig.version=... -X .../buildconfig.commit=...".
package buildconfig

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// String renders the stamped pair for startup logs and the health endpoint.
func String() string {
	return fmt.Sprintf("%s (%s)", version, commit)
}
