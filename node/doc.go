// Package node defines the contract between node authors and a flow host.
//
// A node is a plain struct that embeds Base, reports its type identifier
// through the Definition interface, and opts into lifecycle behavior by
// implementing the hook interfaces declared here (Initializer, InputHandler,
// CloseHandler, CredentialsProvider, SettingsProvider). Authors register
// definitions as pointers, e.g. registry.Register(ctx, h, &Lowercase{}).
//
// The host never calls hook methods on the registered prototype. For every
// deployed flow node it constructs a fresh instance, attaches the instance
// wiring (ids, properties, logger, status and error reporting, scoped
// context stores) to the embedded Base exactly once, and binds the hooks
// the concrete type implements to the runtime's event names.
//
// The zero value of Base is inert: accessor methods return safe defaults
// until Attach is called, so hook logic can be unit-tested on a bare struct
// without a host.
package node
