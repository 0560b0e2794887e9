package app

import (
	"os"
	"testing"

	"github.com/rzaytsev/flowbind/internal/testutil"
	"github.com/rzaytsev/flowbind/node"
)

// SetupAppTest creates a new app instance for system testing, with debug
// logging captured in the returned buffer.
func SetupAppTest(t *testing.T, cfg *Config, defs ...node.Definition) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(logBuffer, cfg, defs...)

	t.Cleanup(func() {
		if os.Getenv("FLOWBIND_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
