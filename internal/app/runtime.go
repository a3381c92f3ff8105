package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "CONSORCIA_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

// detectTestMode reads the CONSORCIA_TEST_MODE flag once. Both "1" and
// "true" enable it.
func detectTestMode() {
	v := os.Getenv(testModeEnv)
	testModeFlag.Store(v == "1" || v == "true")
}

// InTestMode reports whether the application should skip runtime side effects.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode updates the cached flag after environment changes.
func RefreshTestMode() {
	detectTestMode()
}
