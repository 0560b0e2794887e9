package node

import "context"

// Event names a lifecycle event a host can deliver to a node instance.
// The set of supported events is fixed; an instance gets at most one
// handler per event.
type Event string

const (
	// EventInput is delivered when a message arrives on the instance's
	// input wire.
	EventInput Event = "input"

	// EventClose is delivered when the instance's flow is undeployed or
	// the instance is removed.
	EventClose Event = "close"
)

// Events returns the fixed set of lifecycle events a host recognizes.
func Events() []Event {
	return []Event{EventInput, EventClose}
}

// SendFunc emits zero or more outbound messages from a node instance onto
// its output wires.
type SendFunc func(msgs ...*Message)

// DoneFunc signals completion of a single hook invocation. It must be
// called exactly once per invocation; a non-nil error marks the invocation
// as failed. The host ignores calls after the first.
type DoneFunc func(err error)

// InputFunc is the bound form of InputHandler.OnInput.
type InputFunc func(ctx context.Context, msg *Message, send SendFunc, done DoneFunc)

// CloseFunc is the bound form of CloseHandler.OnClose.
type CloseFunc func(ctx context.Context, removed bool, done DoneFunc)
