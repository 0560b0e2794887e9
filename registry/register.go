package registry

import (
	"context"
	"fmt"

	"github.com/rzaytsev/flowbind/host"
	"github.com/rzaytsev/flowbind/node"
)

// Register adapts and installs defs on h, in input order.
//
// Every definition is validated against the node contract before the host
// is touched at all, so a malformed definition anywhere in the list fails
// the call without side effects. After the pre-pass, each definition is
// adapted (descriptor, event probe, one-time Init) and installed through
// h.RegisterType. The first failure aborts the sequence; already-installed
// types stay installed.
func Register(ctx context.Context, h host.Host, defs ...node.Definition) error {
	for _, def := range defs {
		if node.BaseOf(def) == nil {
			return fmt.Errorf("%w: %T", ErrContractViolation, def)
		}
		if def.Type() == "" {
			return fmt.Errorf("%w: %T", ErrMissingType, def)
		}
	}

	for _, def := range defs {
		reg, err := Adapt(ctx, h, def)
		if err != nil {
			return err
		}
		if err := h.RegisterType(ctx, reg.Type(), reg.NewInstance, reg.Properties()); err != nil {
			return fmt.Errorf("installing node type %q: %w", reg.Type(), err)
		}
	}
	return nil
}
