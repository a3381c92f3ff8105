package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInTestModeFlagForms(t *testing.T) {
	for _, v := range []string{"1", "true"} {
		t.Setenv(testModeEnv, v)
		RefreshTestMode()
		require.True(t, InTestMode(), "value %q", v)
	}
	for _, v := range []string{"", "0", "yes"} {
		t.Setenv(testModeEnv, v)
		RefreshTestMode()
		require.False(t, InTestMode(), "value %q", v)
	}
}
