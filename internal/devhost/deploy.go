package devhost

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rzaytsev/flowbind/host"
	"github.com/rzaytsev/flowbind/internal/address"
	"github.com/rzaytsev/flowbind/internal/contextstore"
	"github.com/rzaytsev/flowbind/internal/flowfile"
	"github.com/rzaytsev/flowbind/internal/flowgraph"
	"github.com/rzaytsev/flowbind/node"
)

// Deploy installs one flow. Wires that point outside the flow must target
// already-deployed instances; use DeployAll for sets with cross-flow wires.
func (h *Host) Deploy(ctx context.Context, flow *flowfile.Flow) error {
	return h.DeployAll(ctx, []*flowfile.Flow{flow})
}

// DeployAll installs a set of flows as one unit: every instance of the set
// is created before any wire is connected, so wires may point anywhere
// within the set or at instances deployed earlier.
func (h *Host) DeployAll(ctx context.Context, flows []*flowfile.Flow) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	pending := make(map[address.Address]bool)
	for _, flow := range flows {
		if _, exists := h.flows[flow.ID]; exists {
			return fmt.Errorf("flow %q is already deployed", flow.ID)
		}
		for _, n := range flow.Nodes {
			if _, known := h.types[n.Type]; !known {
				return fmt.Errorf("flow %q: unknown node type %q", flow.ID, n.Type)
			}
			pending[address.New(flow.ID, n.Name)] = true
		}
	}

	// Every wire target must resolve within the set or to an instance
	// already deployed. Checked before anything is built or committed, so
	// a dangling wire leaves the host untouched and the set redeployable.
	for _, flow := range flows {
		for _, n := range flow.Nodes {
			for _, to := range n.Wires {
				if pending[to] {
					continue
				}
				if _, live := h.instances[to]; live {
					continue
				}
				return fmt.Errorf("flow %q: wire target not found: %s", flow.ID, to)
			}
		}
	}

	// Build every instance next. Nothing is committed until the whole set
	// constructed, so a failing factory leaves the host unchanged.
	created := make(map[address.Address]*liveInstance)
	for _, flow := range flows {
		for _, n := range flow.Nodes {
			li, err := h.buildInstanceLocked(ctx, flow, n)
			if err != nil {
				return err
			}
			created[li.addr] = li
		}
	}

	for addr, li := range created {
		h.instances[addr] = li
		h.graph.AddNode(addr)
	}
	for _, flow := range flows {
		h.flows[flow.ID] = flow
	}
	for _, flow := range flows {
		for _, n := range flow.Nodes {
			from := address.New(flow.ID, n.Name)
			for _, to := range n.Wires {
				// Endpoints were validated above; AddWire cannot fail here.
				_ = h.graph.AddWire(from, to)
			}
		}
	}

	for _, flow := range flows {
		h.logger.Info("▶️ Flow deployed", "flow_id", flow.ID, "nodes", len(flow.Nodes))
	}
	return nil
}

// buildInstanceLocked creates and wires one instance through the type's
// registered factory. Callers hold h.mu.
func (h *Host) buildInstanceLocked(ctx context.Context, flow *flowfile.Flow, n *flowfile.Node) (*liveInstance, error) {
	addr := address.New(flow.ID, n.Name)
	rt := h.types[n.Type]

	li := &liveInstance{
		addr:   addr,
		typ:    n.Type,
		logger: h.logger.With("node", addr.String(), "type", n.Type),
	}

	wiring := node.Wiring{
		ID:     uuid.NewString(),
		Flow:   flow.ID,
		Name:   n.Name,
		Props:  n.Props,
		Logger: li.logger,
		SetStatus: func(s node.Status) {
			h.board.set(addr, s)
			li.logger.Debug("Status updated.", "fill", s.Fill, "text", s.Text)
		},
		ReportError: func(err error, msg *node.Message) {
			msgID := ""
			if msg != nil {
				msgID = msg.ID
			}
			li.logger.Error("Node reported an error.", "error", err, "msg_id", msgID)
			h.board.set(addr, node.Status{Fill: node.FillRed, Shape: node.ShapeRing, Text: err.Error()})
		},
		Evaluate:      h.EvaluateProperty,
		FlowContext:   contextstore.Scoped(h.store, flow.ID),
		GlobalContext: contextstore.Scoped(h.store, contextstore.GlobalScope),
	}

	def, err := rt.factory(ctx, &host.Instance{Wiring: wiring, Binder: &instanceBinder{inst: li}})
	if err != nil {
		return nil, fmt.Errorf("creating %s (type %q): %w", addr, n.Type, err)
	}
	li.def = def
	return li, nil
}

// Undeploy removes one flow. removed reports whether the flow is being
// deleted outright rather than redeployed; close handlers receive it
// as-is. The context bounds how long the handlers may take.
func (h *Host) Undeploy(ctx context.Context, flowID string, removed bool) error {
	h.mu.Lock()
	if _, ok := h.flows[flowID]; !ok {
		h.mu.Unlock()
		return fmt.Errorf("flow %q is not deployed", flowID)
	}

	var closing []*liveInstance
	for addr, li := range h.instances {
		if addr.Flow == flowID {
			li.markGone()
			closing = append(closing, li)
			delete(h.instances, addr)
			h.board.clear(addr)
		}
	}
	delete(h.flows, flowID)
	h.rebuildGraphLocked()
	h.mu.Unlock()

	h.closeInstances(ctx, closing, removed)
	h.logger.Info("Flow undeployed.", "flow_id", flowID, "removed", removed)
	return nil
}

// closeInstances delivers the close event to every instance that bound a
// handler and waits for their done callbacks, bounded by ctx.
func (h *Host) closeInstances(ctx context.Context, instances []*liveInstance, removed bool) {
	var wg sync.WaitGroup
	for _, li := range instances {
		fn := li.closeFn()
		if fn == nil {
			li.logger.Debug("Instance binds no close handler.")
			continue
		}

		wg.Add(1)
		var once sync.Once
		done := func(err error) {
			once.Do(func() {
				if err != nil {
					li.logger.Error("Close handler reported an error.", "error", err)
				}
				wg.Done()
			})
		}
		go fn(h.baseCtx, removed, done)
	}

	settled := make(chan struct{})
	go func() {
		wg.Wait()
		close(settled)
	}()
	select {
	case <-settled:
	case <-ctx.Done():
		h.logger.Warn("Close handlers did not finish in time.", "error", ctx.Err())
	}
}

// rebuildGraphLocked reconstructs the wire graph from the flows that remain
// deployed. Wires whose targets left with an undeployed flow vanish with
// it. Callers hold h.mu.
func (h *Host) rebuildGraphLocked() {
	g := flowgraph.New()
	for addr := range h.instances {
		g.AddNode(addr)
	}
	for _, flow := range h.flows {
		for _, n := range flow.Nodes {
			from := address.New(flow.ID, n.Name)
			for _, to := range n.Wires {
				if g.Has(to) {
					_ = g.AddWire(from, to)
				}
			}
		}
	}
	h.graph = g
}

// Flows returns the ids of the currently deployed flows.
func (h *Host) Flows() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.flows))
	for id := range h.flows {
		out = append(out, id)
	}
	return out
}

// Instance returns the wired definition deployed at addr, for tests and
// diagnostics.
func (h *Host) Instance(addr address.Address) (node.Definition, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	li, ok := h.instances[addr]
	if !ok {
		return nil, false
	}
	return li.def, true
}
