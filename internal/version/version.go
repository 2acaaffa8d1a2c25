// Package version carries build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns "<version> (<commit>, built <date>, <go version>)".
func Info() string {
	return fmt.Sprintf("%s (%s, built %s, %s)", Version, Commit, BuildDate, runtime.Version())
}
