package flowfile

import (
	"errors"
	"fmt"

	"github.com/rzaytsev/flowbind/internal/address"
)

// validate checks the loaded set as a whole and reports every problem at
// once: duplicate flow ids, duplicate node names, dangling wires, and entry
// declarations that point nowhere.
func validate(flows []*Flow) error {
	var errs []error

	seenFlows := make(map[string]bool)
	known := make(map[address.Address]bool)

	for _, f := range flows {
		if f.ID == "" {
			errs = append(errs, errors.New("flow with empty id"))
			continue
		}
		if seenFlows[f.ID] {
			errs = append(errs, fmt.Errorf("duplicate flow id %q", f.ID))
			continue
		}
		seenFlows[f.ID] = true

		seenNodes := make(map[string]bool)
		for _, n := range f.Nodes {
			if n.Type == "" {
				errs = append(errs, fmt.Errorf("flow %q: node %q has an empty type", f.ID, n.Name))
			}
			if seenNodes[n.Name] {
				errs = append(errs, fmt.Errorf("flow %q: duplicate node name %q", f.ID, n.Name))
				continue
			}
			seenNodes[n.Name] = true
			known[address.New(f.ID, n.Name)] = true
		}
	}

	for _, f := range flows {
		if f.Entry != "" && !known[address.New(f.ID, f.Entry)] {
			errs = append(errs, fmt.Errorf("flow %q: entry %q names no node", f.ID, f.Entry))
		}
		for _, n := range f.Nodes {
			for _, target := range n.Wires {
				if !known[target] {
					errs = append(errs, fmt.Errorf("flow %q: node %q wires to unknown node %s", f.ID, n.Name, target))
				}
			}
		}
	}

	return errors.Join(errs...)
}
