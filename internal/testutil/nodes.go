package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/rzaytsev/flowbind/node"
	"github.com/stretchr/testify/require"
)

// Collector is a sink node for tests. Every payload it receives is appended
// to a list in the host's global context under "collected:<name>", and a
// copy of the message's field map is stored under "fields:<name>". After
// recording, the collector taints the message's fields so clone isolation
// is observable.
type Collector struct {
	node.Base
}

func (c *Collector) Type() string { return "collector" }

func (c *Collector) OnInput(ctx context.Context, msg *node.Message, _ node.SendFunc, done node.DoneFunc) {
	kv := c.GlobalContext()

	listKey := "collected:" + c.Name()
	prev, _, err := kv.Get(ctx, listKey)
	if err != nil {
		done(err)
		return
	}
	list, _ := prev.([]any)
	if err := kv.Set(ctx, listKey, append(list, msg.Payload)); err != nil {
		done(err)
		return
	}

	fields := make(map[string]any, len(msg.Fields))
	for k, v := range msg.Fields {
		fields[k] = v
	}
	if err := kv.Set(ctx, "fields:"+c.Name(), fields); err != nil {
		done(err)
		return
	}

	msg.SetField("tainted_by", c.Name())
	done(nil)
}

// Relay forwards every message unchanged.
type Relay struct {
	node.Base
}

func (r *Relay) Type() string { return "relay" }

func (r *Relay) OnInput(_ context.Context, msg *node.Message, send node.SendFunc, done node.DoneFunc) {
	send(msg)
	done(nil)
}

// Failer reports every delivery as failed, through both the done callback
// and the host error reporter.
type Failer struct {
	node.Base
}

func (f *Failer) Type() string { return "failer" }

func (f *Failer) OnInput(_ context.Context, msg *node.Message, _ node.SendFunc, done node.DoneFunc) {
	err := errors.New("failer always fails")
	f.Error(err, msg)
	done(err)
}

// Closer records the removed flag of its close event under
// "closed:<name>" in the global context.
type Closer struct {
	node.Base
}

func (c *Closer) Type() string { return "closer" }

func (c *Closer) OnClose(ctx context.Context, removed bool, done node.DoneFunc) {
	done(c.GlobalContext().Set(ctx, "closed:"+c.Name(), removed))
}

// Collected returns the payloads the named Collector instance recorded so
// far.
func (h *Harness) Collected(t *testing.T, name string) []any {
	t.Helper()

	v, ok, err := h.Host.GlobalContext().Get(context.Background(), "collected:"+name)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	require.True(t, ok, "collected:%s holds %T, want []any", name, v)
	return list
}

// CollectedFields returns the field map snapshot of the last message the
// named Collector instance received.
func (h *Harness) CollectedFields(t *testing.T, name string) map[string]any {
	t.Helper()

	v, ok, err := h.Host.GlobalContext().Get(context.Background(), "fields:"+name)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	fields, ok := v.(map[string]any)
	require.True(t, ok, "fields:%s holds %T, want map[string]any", name, v)
	return fields
}

// ClosedRemoved returns the removed flag the named Closer instance
// recorded, and whether it closed at all.
func (h *Harness) ClosedRemoved(t *testing.T, name string) (bool, bool) {
	t.Helper()

	v, ok, err := h.Host.GlobalContext().Get(context.Background(), "closed:"+name)
	require.NoError(t, err)
	if !ok {
		return false, false
	}
	removed, isBool := v.(bool)
	require.True(t, isBool, "closed:%s holds %T, want bool", name, v)
	return removed, true
}
