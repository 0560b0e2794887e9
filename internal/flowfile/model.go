// Package flowfile loads HCL flow definitions from disk into the model the
// host deploys. A flow file holds one or more `flow` blocks, each declaring
// named node instances, their wires, and their settings.
package flowfile

import "github.com/rzaytsev/flowbind/internal/address"

// Flow is one parsed and validated flow definition.
type Flow struct {
	// ID is the flow's identifier, unique across the loaded set.
	ID string

	// Entry optionally names the node that receives injected messages when
	// the caller does not address one explicitly.
	Entry string

	// Nodes in file order.
	Nodes []*Node
}

// Node is one declared node instance.
type Node struct {
	// Type is the registered node type this instance is created from.
	Type string

	// Name identifies the instance within its flow.
	Name string

	// Wires are the resolved addresses this instance's output feeds.
	Wires []address.Address

	// Props holds the decoded settings attributes. Nil when the node has
	// no settings block.
	Props map[string]any
}

// Node returns the named node, or nil.
func (f *Flow) Node(name string) *Node {
	for _, n := range f.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// EntryAddress returns the address messages are injected at by default:
// the declared entry node, or the first node when no entry is declared.
func (f *Flow) EntryAddress() (address.Address, bool) {
	if f.Entry != "" {
		return address.New(f.ID, f.Entry), true
	}
	if len(f.Nodes) > 0 {
		return address.New(f.ID, f.Nodes[0].Name), true
	}
	return address.Address{}, false
}
