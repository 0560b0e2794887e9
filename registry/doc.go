// Package registry turns plain node definitions into host-installable
// registrations.
//
// Adapt validates one definition against the node contract, builds its
// registration descriptor (credentials passed through, settings rewritten
// into the per-type namespace), probes the fixed lifecycle-event table for
// the hooks the definition implements, runs its one-time Init, and returns
// a Registration whose NewInstance factory constructs wired instances for
// the host.
//
// Register is the entry point applications use: it validates a whole list
// of definitions before touching the host, then adapts and installs them in
// order.
//
// All registration-time failures are sentinel errors (ErrContractViolation,
// ErrMissingType, ErrAlreadyInitialized) or an InitError wrapping the
// definition's own failure, so callers can classify them with errors.Is.
package registry
