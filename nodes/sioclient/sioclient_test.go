package sioclient

import (
	"context"
	"testing"
	"time"

	"github.com/rzaytsev/flowbind/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := &Node{}

	// --- Act ---
	cfg := n.config()

	// --- Assert ---
	assert.Equal(t, "/", cfg.namespace)
	assert.Equal(t, "message", cfg.emitEvent)
	assert.Equal(t, "response", cfg.onEvent)
	assert.Equal(t, defaultTimeout, cfg.timeout)
	assert.False(t, cfg.insecure)
}

func TestConfig_ReadsProps(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := &Node{}
	require.NoError(t, node.BaseOf(n).Attach(node.Wiring{
		ID: "i1",
		Props: map[string]any{
			"url":        "wss://example.test/socket.io",
			"namespace":  "/updates",
			"emit_event": "ask",
			"on_event":   "answer",
			"timeout":    "250ms",
		},
	}))

	// --- Act ---
	cfg := n.config()

	// --- Assert ---
	assert.Equal(t, "wss://example.test/socket.io", cfg.url)
	assert.Equal(t, "/updates", cfg.namespace)
	assert.Equal(t, "ask", cfg.emitEvent)
	assert.Equal(t, "answer", cfg.onEvent)
	assert.Equal(t, 250*time.Millisecond, cfg.timeout)
}

func TestConfig_InvalidTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := &Node{}
	require.NoError(t, node.BaseOf(n).Attach(node.Wiring{
		ID:    "i1",
		Props: map[string]any{"timeout": "not-a-duration"},
	}))

	// --- Act / Assert ---
	assert.Equal(t, defaultTimeout, n.config().timeout)
}

func TestOnInput_EmptyURLFails(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := &Node{}
	var doneErr error
	var sent []*node.Message

	// --- Act ---
	n.OnInput(context.Background(),
		&node.Message{Payload: "hello"},
		func(msgs ...*node.Message) { sent = append(sent, msgs...) },
		func(err error) { doneErr = err },
	)

	// --- Assert ---
	require.Error(t, doneErr)
	assert.Contains(t, doneErr.Error(), "url setting is empty")
	assert.Empty(t, sent)
}

func TestOnClose_WithoutConnection(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := &Node{}
	called := 0

	// --- Act ---
	n.OnClose(context.Background(), true, func(err error) {
		called++
		assert.NoError(t, err)
	})

	// --- Assert ---
	assert.Equal(t, 1, called)
}

func TestSettings_DeclareTheWireSurface(t *testing.T) {
	t.Parallel()

	settings := (&Node{}).Settings()
	for _, key := range []string{"url", "namespace", "emit_event", "on_event", "timeout", "insecure_skip_verify"} {
		assert.Contains(t, settings, key)
	}
	assert.False(t, settings["insecure_skip_verify"].Exportable)
}
