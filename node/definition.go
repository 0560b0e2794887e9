package node

import (
	"context"
	"reflect"
	"strings"
)

// Definition is the minimal surface every node type must provide: a stable,
// non-empty type identifier, unique per host. Definitions must also embed
// Base; the registry rejects any that do not.
//
// Type identifiers are explicit. A definition whose Type returns the empty
// string is rejected at registration time; nothing is ever derived from the
// Go type name unless the author opts in via DeriveType.
type Definition interface {
	Type() string
}

// Initializer is implemented by definitions that need one-time per-type
// setup, such as registering an admin HTTP route. Init runs once per host,
// after the definition has been validated and before any instance of the
// type can be constructed. A non-nil error aborts registration of the type.
type Initializer interface {
	Init(ctx context.Context, rt Runtime) error
}

// CredentialsProvider is implemented by definitions that declare credential
// fields. The returned schema is passed through to the host unmodified;
// credential field names are not namespaced.
type CredentialsProvider interface {
	Credentials() map[string]CredentialField
}

// SettingsProvider is implemented by definitions that declare host-visible
// settings. Setting keys are rewritten into the per-type namespace before
// the host sees them; the returned map itself is never mutated.
type SettingsProvider interface {
	Settings() map[string]Setting
}

// InputHandler is implemented by definitions that consume messages.
// done must be called exactly once per delivery.
type InputHandler interface {
	OnInput(ctx context.Context, msg *Message, send SendFunc, done DoneFunc)
}

// CloseHandler is implemented by definitions that need teardown when their
// instance is being disposed. removed is true when the node is being
// deleted outright, false when the flow is merely being redeployed.
type CloseHandler interface {
	OnClose(ctx context.Context, removed bool, done DoneFunc)
}

// CredentialField describes one credential input declared by a definition.
type CredentialField struct {
	// Type is the input kind the host editor should render, e.g. "text"
	// or "password".
	Type string

	// Required marks the field as mandatory.
	Required bool
}

// Setting describes one host-visible setting declared by a definition.
type Setting struct {
	// Value is the default value of the setting.
	Value any

	// Exportable controls whether the host exposes the setting to the
	// editor surface.
	Exportable bool
}

// DeriveType returns the lowercase Go struct name of def, for authors who
// want a name-derived type identifier:
//
//	func (n *Lowercase) Type() string { return node.DeriveType(n) }
//
// This is strictly opt-in. The registry never falls back to it, since a
// type identifier tied silently to a Go name breaks under renames.
func DeriveType(def any) string {
	t := reflect.TypeOf(def)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return strings.ToLower(t.Name())
}
