// Package testhelper silences zerolog output for test binaries. Import it
// for side effects from a package's tests.
package testhelper

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// LogEnv enables test logging when set to a zerolog level name.
const LogEnv = "CASEGEN_TEST_LOG"

func init() {
	if testing.Testing() {
		Quiet()
	}
}

// Quiet disables global logging unless LogEnv asks for it. An unparseable
// level falls back to debug.
func Quiet() {
	v := os.Getenv(LogEnv)
	if v == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return
	}
	level, err := zerolog.ParseLevel(v)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}
