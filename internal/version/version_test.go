package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	prev := [3]string{Version, Commit, BuildDate}
	t.Cleanup(func() { Version, Commit, BuildDate = prev[0], prev[1], prev[2] })

	Version, Commit, BuildDate = "v1.2.0", "abc123", "2026-10-15"
	assert.Equal(t, "v1.2.0 (abc123, built 2026-10-15, "+runtime.Version()+")", Info())
}
