// Package flowgraph models the wiring of one or more deployed flows: which
// node instances exist and which instances their output wires point at.
//
// Unlike a dependency graph, a flow graph tolerates cycles. Feedback wires
// are a legitimate flow-programming construct, so FindCycle exists for
// diagnostics rather than validation.
package flowgraph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rzaytsev/flowbind/internal/address"
)

// Graph is a thread-safe directed graph of node instances keyed by address.
// Wire order is preserved: Targets returns addresses in the order the wires
// were added, which fixes the fan-out delivery order.
type Graph struct {
	mu    sync.RWMutex
	nodes map[address.Address]*vertex
}

type vertex struct {
	addr    address.Address
	sources []address.Address
	targets []address.Address
}

// New creates an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[address.Address]*vertex)}
}

// AddNode adds an instance to the graph. Adding an existing address does
// nothing.
func (g *Graph) AddNode(addr address.Address) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[addr]; ok {
		return
	}
	g.nodes[addr] = &vertex{addr: addr}
}

// AddWire creates a directed wire from one instance's output to another's
// input. Both endpoints must exist. Wiring a node to itself is allowed,
// since feedback loops are. A duplicate wire is ignored.
func (g *Graph) AddWire(from, to address.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("wire source not found: %s", from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("wire target not found: %s", to)
	}

	for _, t := range src.targets {
		if t == to {
			return nil
		}
	}
	src.targets = append(src.targets, to)
	dst.sources = append(dst.sources, from)
	return nil
}

// Targets returns the addresses the instance's output wires point at, in
// wire order.
func (g *Graph) Targets(addr address.Address) ([]address.Address, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.nodes[addr]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", addr)
	}
	return append([]address.Address(nil), v.targets...), nil
}

// Sources returns the addresses wired into the instance's input.
func (g *Graph) Sources(addr address.Address) ([]address.Address, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.nodes[addr]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", addr)
	}
	return append([]address.Address(nil), v.sources...), nil
}

// Nodes returns every address in the graph, sorted for determinism.
func (g *Graph) Nodes() []address.Address {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]address.Address, 0, len(g.nodes))
	for addr := range g.nodes {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Has reports whether the address exists in the graph.
func (g *Graph) Has(addr address.Address) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[addr]
	return ok
}

// FindCycle reports the first node found to be part of a wiring cycle.
// Depth-first search with a permanent set for fully explored nodes and a
// temporary set for the current traversal stack; revisiting a temporary
// node means the wires loop.
func (g *Graph) FindCycle() (address.Address, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	permanent := make(map[address.Address]bool)
	temporary := make(map[address.Address]bool)

	var cycleAt address.Address
	var visit func(v *vertex) bool
	visit = func(v *vertex) bool {
		if permanent[v.addr] {
			return false
		}
		if temporary[v.addr] {
			cycleAt = v.addr
			return true
		}

		temporary[v.addr] = true
		for _, t := range v.targets {
			if visit(g.nodes[t]) {
				return true
			}
		}
		delete(temporary, v.addr)
		permanent[v.addr] = true
		return false
	}

	// Iterate sorted for a stable answer.
	for _, addr := range g.sortedLocked() {
		if !permanent[addr] && visit(g.nodes[addr]) {
			return cycleAt, true
		}
	}
	return address.Address{}, false
}

func (g *Graph) sortedLocked() []address.Address {
	out := make([]address.Address, 0, len(g.nodes))
	for addr := range g.nodes {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
