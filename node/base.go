package node

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrAlreadyWired is returned by Base.Attach when the instance has already
// been attached to a host.
var ErrAlreadyWired = errors.New("node instance already wired to a host")

// Wiring carries everything a host provides to one node instance. It is
// assembled by the host and attached to the instance's embedded Base during
// construction.
type Wiring struct {
	// ID uniquely identifies the instance within the host.
	ID string

	// Flow is the identifier of the owning flow.
	Flow string

	// Name is the instance's name from the flow definition. May be empty.
	Name string

	// Props holds the instance's evaluated configuration properties.
	Props map[string]any

	// Logger is pre-tagged with the instance's identity.
	Logger *slog.Logger

	// SetStatus reports the instance's visual status to the host.
	SetStatus func(Status)

	// ReportError surfaces a runtime error, optionally with the message
	// being processed when it occurred.
	ReportError func(err error, msg *Message)

	// Evaluate resolves a property expression against a message using the
	// host's expression engine.
	Evaluate func(ctx context.Context, expr string, msg *Message) (any, error)

	// FlowContext is the key/value store scoped to the owning flow.
	FlowContext KV

	// GlobalContext is the host-wide key/value store.
	GlobalContext KV
}

// Base is the embedded core of every node definition. It holds the
// per-instance wiring and exposes it to hook code through accessor methods.
//
// A Base is attached at most once. Before attachment every accessor returns
// a safe default (empty ids, slog.Default(), inert stores), so definitions
// can be constructed and exercised directly in tests.
type Base struct {
	mu         sync.Mutex
	wired      bool
	wiring     Wiring
	resetTimer *time.Timer
}

// NodeBase returns the embedded Base. It exists so that BaseOf can detect
// the embedding through interface assertion on the enclosing struct.
func (b *Base) NodeBase() *Base { return b }

// BaseOf returns the embedded Base of def, or nil when def does not embed
// one. The registry uses it as the contract check; definitions must be
// registered as pointers for the embedding to be visible.
func BaseOf(def any) *Base {
	carrier, ok := def.(interface{ NodeBase() *Base })
	if !ok {
		return nil
	}
	return carrier.NodeBase()
}

// Attach wires the instance to a host. Called by the registry during
// instance construction, before any event can be delivered. A second call
// returns ErrAlreadyWired.
func (b *Base) Attach(w Wiring) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wired {
		return ErrAlreadyWired
	}
	b.wired = true
	b.wiring = w
	return nil
}

// ID returns the instance identifier, or "" before attachment.
func (b *Base) ID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wiring.ID
}

// Flow returns the owning flow identifier, or "" before attachment.
func (b *Base) Flow() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wiring.Flow
}

// Name returns the instance name from the flow definition.
func (b *Base) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wiring.Name
}

// Props returns the instance's evaluated configuration properties.
func (b *Base) Props() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wiring.Props
}

// Prop returns one configuration property, or nil when absent.
func (b *Base) Prop(name string) any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wiring.Props == nil {
		return nil
	}
	return b.wiring.Props[name]
}

// Log returns the instance logger, falling back to slog.Default() before
// attachment.
func (b *Base) Log() *slog.Logger {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wiring.Logger == nil {
		return slog.Default()
	}
	return b.wiring.Logger
}

// SetStatus reports a status and cancels any pending delayed clear.
func (b *Base) SetStatus(s Status) {
	b.mu.Lock()
	b.stopResetLocked()
	report := b.wiring.SetStatus
	b.mu.Unlock()
	if report != nil {
		report(s)
	}
}

// SetStatusFor reports a status and schedules it to clear after d. Any
// previously pending clear is cancelled first, so a newer status is never
// wiped by an older timer.
func (b *Base) SetStatusFor(s Status, d time.Duration) {
	b.mu.Lock()
	b.stopResetLocked()
	report := b.wiring.SetStatus
	b.resetTimer = time.AfterFunc(d, func() { b.ClearStatus() })
	b.mu.Unlock()
	if report != nil {
		report(s)
	}
}

// ClearStatus removes any reported status and cancels a pending delayed
// clear.
func (b *Base) ClearStatus() {
	b.mu.Lock()
	b.stopResetLocked()
	report := b.wiring.SetStatus
	b.mu.Unlock()
	if report != nil {
		report(Status{})
	}
}

// stopResetLocked cancels the pending status clear, if any. Callers hold mu.
func (b *Base) stopResetLocked() {
	if b.resetTimer != nil {
		b.resetTimer.Stop()
		b.resetTimer = nil
	}
}

// Error reports a runtime error to the host, logging it locally when the
// instance is not wired. msg may be nil.
func (b *Base) Error(err error, msg *Message) {
	b.mu.Lock()
	report := b.wiring.ReportError
	b.mu.Unlock()
	if report != nil {
		report(err, msg)
		return
	}
	b.Log().Error("node error", "error", err)
}

// Evaluate resolves a property expression against msg using the host's
// expression engine.
func (b *Base) Evaluate(ctx context.Context, expr string, msg *Message) (any, error) {
	b.mu.Lock()
	eval := b.wiring.Evaluate
	b.mu.Unlock()
	if eval == nil {
		return nil, errors.New("no property evaluator attached")
	}
	return eval(ctx, expr, msg)
}

// FlowContext returns the flow-scoped key/value store. Before attachment it
// returns an inert store that holds nothing.
func (b *Base) FlowContext() KV {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wiring.FlowContext == nil {
		return noopKV{}
	}
	return b.wiring.FlowContext
}

// GlobalContext returns the host-wide key/value store. Before attachment it
// returns an inert store that holds nothing.
func (b *Base) GlobalContext() KV {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wiring.GlobalContext == nil {
		return noopKV{}
	}
	return b.wiring.GlobalContext
}

// noopKV is the inert store returned by an unwired Base.
type noopKV struct{}

func (noopKV) Get(context.Context, string) (any, bool, error) { return nil, false, nil }
func (noopKV) Set(context.Context, string, any) error         { return nil }
func (noopKV) Delete(context.Context, string) error           { return nil }
func (noopKV) Keys(context.Context) ([]string, error)         { return nil, nil }
