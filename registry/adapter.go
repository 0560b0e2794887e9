package registry

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/rzaytsev/flowbind/host"
	"github.com/rzaytsev/flowbind/node"
)

// Registration is the host-installable form of one node definition: the
// resolved type, the registration descriptor, the set of lifecycle events
// the definition handles, and the NewInstance factory. It is produced by
// Adapt and is immutable afterwards.
type Registration struct {
	typ    string
	proto  reflect.Type
	events []node.Event
	desc   *host.Descriptor
}

// Adapt validates def against the node contract and produces its
// Registration for installation on h.
//
// Steps, in order: contract check (def must embed node.Base and be a
// pointer), type check (Type() must be non-empty), duplicate check against
// h, descriptor construction, event probing, and the definition's one-time
// Init. An Init failure is returned as *InitError and leaves the type
// uninstalled.
func Adapt(ctx context.Context, h host.Host, def node.Definition) (*Registration, error) {
	if node.BaseOf(def) == nil {
		return nil, fmt.Errorf("%w: %T", ErrContractViolation, def)
	}
	typ := def.Type()
	if typ == "" {
		return nil, fmt.Errorf("%w: %T", ErrMissingType, def)
	}
	if h.HasType(typ) {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyInitialized, typ)
	}

	desc := &host.Descriptor{}
	if cp, ok := def.(node.CredentialsProvider); ok {
		desc.Credentials = cp.Credentials()
	}
	if sp, ok := def.(node.SettingsProvider); ok {
		desc.Settings = NamespaceSettings(typ, sp.Settings())
	}

	var events []node.Event
	for _, b := range bindings {
		if b.probe(def) {
			events = append(events, b.event)
		}
	}

	if init, ok := def.(node.Initializer); ok {
		if err := init.Init(ctx, h.Runtime(typ)); err != nil {
			return nil, &InitError{Type: typ, Err: err}
		}
	}

	proto := reflect.TypeOf(def)
	for proto.Kind() == reflect.Pointer {
		proto = proto.Elem()
	}

	return &Registration{
		typ:    typ,
		proto:  proto,
		events: events,
		desc:   desc,
	}, nil
}

// Type returns the registered type identifier.
func (r *Registration) Type() string { return r.typ }

// Events returns the lifecycle events the definition handles, in table
// order.
func (r *Registration) Events() []node.Event {
	return slices.Clone(r.events)
}

// Handles reports whether the definition handles ev.
func (r *Registration) Handles(ev node.Event) bool {
	return slices.Contains(r.events, ev)
}

// Properties returns the registration descriptor the host stores for the
// type.
func (r *Registration) Properties() *host.Descriptor { return r.desc }

// NewInstance constructs one wired instance: a fresh value of the
// definition's struct type, attached to the instance wiring, with the
// probed events bound through the instance's binder. It satisfies
// host.InstanceFactory.
//
// Attachment and binding complete before NewInstance returns, so the host
// can deliver events to the instance as soon as it has it.
func (r *Registration) NewInstance(ctx context.Context, inst *host.Instance) (node.Definition, error) {
	fresh, ok := reflect.New(r.proto).Interface().(node.Definition)
	if !ok {
		return nil, fmt.Errorf("node type %q: %s no longer implements node.Definition", r.typ, r.proto)
	}
	base := node.BaseOf(fresh)
	if base == nil {
		return nil, fmt.Errorf("node type %q: %w", r.typ, ErrContractViolation)
	}
	if err := base.Attach(inst.Wiring); err != nil {
		return nil, fmt.Errorf("node type %q: %w", r.typ, err)
	}
	for _, b := range bindings {
		if r.Handles(b.event) {
			b.bind(fresh, inst.Binder)
		}
	}
	return fresh, nil
}
