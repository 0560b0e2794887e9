package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalFlowsPath(t *testing.T) {
	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := Parse([]string{"flows/"}, out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "flows/", cfg.FlowsPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memory", cfg.ContextStore)
}

func TestParse_FlagsOverrideDefaults(t *testing.T) {
	// --- Arrange ---
	out := &bytes.Buffer{}
	args := []string{
		"-log-level", "debug",
		"-log-format", "json",
		"-admin-port", "8077",
		"-inject", "main.src=hello",
		"-inject", "main.src=world",
		"flows/",
	}

	// --- Act ---
	cfg, shouldExit, err := Parse(args, out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8077, cfg.AdminPort)
	assert.Equal(t, []string{"main.src=hello", "main.src=world"}, cfg.Injects)
}

func TestParse_EnvDefaults(t *testing.T) {
	// --- Arrange ---
	t.Setenv("FLOWBIND_FLOWS", "/etc/flowbind/flows")
	t.Setenv("FLOWBIND_LOG_LEVEL", "warn")
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := Parse(nil, out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "/etc/flowbind/flows", cfg.FlowsPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := Parse(nil, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "bad log level",
			args: []string{"-log-level", "verbose", "flows/"},
			want: "invalid log-level",
		},
		{
			name: "bad log format",
			args: []string{"-log-format", "xml", "flows/"},
			want: "invalid log-format",
		},
		{
			name: "bad context store",
			args: []string{"-context-store", "redis", "flows/"},
			want: "unknown context store",
		},
		{
			name: "sqlite without db path",
			args: []string{"-context-store", "sqlite", "flows/"},
			want: "ContextDB is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// --- Act ---
			_, _, err := Parse(tt.args, &bytes.Buffer{})

			// --- Assert ---
			require.Error(t, err)
			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "want *ExitError, got %T", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.want)
		})
	}
}
