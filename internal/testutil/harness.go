// Package testutil holds the shared harness for host-level and integration
// tests: a devhost wired to a captured logger, flow-file helpers, and a
// small set of node definitions that observe what the host does to them.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rzaytsev/flowbind/internal/devhost"
	"github.com/rzaytsev/flowbind/internal/flowfile"
	"github.com/stretchr/testify/require"
)

// Harness bundles one test host with its captured log output.
type Harness struct {
	Host *devhost.Host
	Logs *SafeBuffer
}

// NewHost creates a devhost whose logs are captured, registered for
// cleanup. Close waits up to five seconds for close handlers.
func NewHost(t *testing.T, name string) *Harness {
	t.Helper()

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := devhost.New(devhost.Options{Name: name, Logger: logger})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Close(ctx)
		if os.Getenv("FLOWBIND_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return &Harness{Host: h, Logs: logs}
}

// WriteFlowFile writes content into a temp flow file and returns its path.
func WriteFlowFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main"+flowfile.Extension)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// LoadFlows parses the given flow files, failing the test on any error.
func LoadFlows(t *testing.T, paths ...string) []*flowfile.Flow {
	t.Helper()

	flows, err := flowfile.NewLoader().LoadFiles(context.Background(), paths...)
	require.NoError(t, err)
	return flows
}

// DeployHCL writes content to a flow file, loads it, and deploys the whole
// set on the harness host.
func (h *Harness) DeployHCL(t *testing.T, content string) []*flowfile.Flow {
	t.Helper()

	flows := LoadFlows(t, WriteFlowFile(t, content))
	require.NoError(t, h.Host.DeployAll(context.Background(), flows))
	return flows
}

// Drain waits for every enqueued delivery to complete, bounded at five
// seconds.
func (h *Harness) Drain(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Host.Drain(ctx))
}
