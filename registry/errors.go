package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrContractViolation marks a definition that does not embed
	// node.Base, or was registered as a value instead of a pointer.
	ErrContractViolation = errors.New("definition does not embed node.Base")

	// ErrMissingType marks a definition whose Type() returned "".
	ErrMissingType = errors.New("definition has no type identifier")

	// ErrAlreadyInitialized marks an attempt to register a type identifier
	// the host already holds.
	ErrAlreadyInitialized = errors.New("node type already registered")
)

// InitError reports that a definition's one-time Init failed. The type is
// not installed and no instance of it can be constructed.
type InitError struct {
	Type string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init of node type %q failed: %v", e.Type, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
