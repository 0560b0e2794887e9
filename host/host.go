// Package host defines the boundary a flow runtime exposes to the node
// registry. The registry drives these interfaces; internal/devhost is the
// in-process implementation shipped with this repository, and tests provide
// their own fakes.
package host

import (
	"context"
	"log/slog"

	"github.com/rzaytsev/flowbind/node"
)

// Descriptor is the registration payload a host stores per node type:
// the credential schema as declared by the definition, and the settings
// schema with keys already rewritten into the per-type namespace.
type Descriptor struct {
	Credentials map[string]node.CredentialField
	Settings    map[string]node.Setting
}

// EventBinder subscribes a constructed instance's handlers to the host's
// event delivery. Each event has a single handler slot; binding replaces
// any previous handler for that event.
type EventBinder interface {
	BindInput(fn node.InputFunc)
	BindClose(fn node.CloseFunc)
}

// Instance is the per-instance creation payload a host passes to an
// InstanceFactory: the wiring to attach and the binder to subscribe
// handlers through.
type Instance struct {
	Wiring node.Wiring
	Binder EventBinder
}

// InstanceFactory constructs one wired node instance. Hosts call it once
// per deployed flow node, after the type's registration completed.
type InstanceFactory func(ctx context.Context, inst *Instance) (node.Definition, error)

// Host is the type-registration surface of a flow runtime.
type Host interface {
	// RegisterType installs a node type. Installing a type identifier that
	// already exists fails.
	RegisterType(ctx context.Context, typ string, factory InstanceFactory, desc *Descriptor) error

	// HasType reports whether typ has already been installed.
	HasType(typ string) bool

	// Runtime returns the per-type surface handed to Initializer.Init.
	Runtime(typ string) node.Runtime

	// Logger returns the host's logger.
	Logger() *slog.Logger

	// Routes exposes the host's HTTP admin surface.
	Routes() node.RouteRegistrar

	// GlobalContext returns the host-wide key/value store.
	GlobalContext() node.KV

	// EvaluateProperty resolves a property expression against a message
	// using the host's expression engine.
	EvaluateProperty(ctx context.Context, expr string, msg *node.Message) (any, error)
}
