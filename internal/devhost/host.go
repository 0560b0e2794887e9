package devhost

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/rzaytsev/flowbind/host"
	"github.com/rzaytsev/flowbind/internal/address"
	"github.com/rzaytsev/flowbind/internal/contextstore"
	"github.com/rzaytsev/flowbind/internal/contextstore/memory"
	"github.com/rzaytsev/flowbind/internal/ctxlog"
	"github.com/rzaytsev/flowbind/internal/flowfile"
	"github.com/rzaytsev/flowbind/internal/flowgraph"
	"github.com/rzaytsev/flowbind/internal/hclval"
	"github.com/rzaytsev/flowbind/node"
	"github.com/rzaytsev/flowbind/registry"
	"github.com/zclconf/go-cty/cty"
)

// Options configures a Host. The zero value is usable: an unnamed host with
// the default logger and an in-memory context store.
type Options struct {
	// Name appears in log lines, to tell hosts apart when tests run more
	// than one.
	Name string

	// Logger receives all host and instance logs. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Context is the backing store for flow and global context scopes.
	// Defaults to an in-memory store.
	Context contextstore.Store
}

// Host is the in-process flow runtime. Create one with New and shut it
// down with Close.
type Host struct {
	name    string
	logger  *slog.Logger
	baseCtx context.Context
	store   contextstore.Store
	mux     *http.ServeMux
	board   *statusBoard
	queue   *dispatchQueue

	mu        sync.RWMutex
	types     map[string]*registeredType
	flows     map[string]*flowfile.Flow
	instances map[address.Address]*liveInstance
	graph     *flowgraph.Graph

	wg      sync.WaitGroup
	stopped chan struct{}
}

type registeredType struct {
	typ     string
	factory host.InstanceFactory
	desc    *host.Descriptor
}

// New creates a Host and starts its dispatcher.
func New(opts Options) *Host {
	name := opts.Name
	if name == "" {
		name = "devhost"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("host", name)

	store := opts.Context
	if store == nil {
		store = memory.New()
	}

	h := &Host{
		name:      name,
		logger:    logger,
		baseCtx:   ctxlog.WithLogger(context.Background(), logger),
		store:     store,
		mux:       http.NewServeMux(),
		board:     newStatusBoard(),
		queue:     newDispatchQueue(),
		types:     make(map[string]*registeredType),
		flows:     make(map[string]*flowfile.Flow),
		instances: make(map[address.Address]*liveInstance),
		graph:     flowgraph.New(),
		stopped:   make(chan struct{}),
	}
	h.registerAdminRoutes()

	go h.dispatch()
	return h
}

// RegisterType installs a node type. Duplicate identifiers are rejected
// with the registry's ErrAlreadyInitialized, mirroring the adapter's own
// pre-check.
func (h *Host) RegisterType(_ context.Context, typ string, factory host.InstanceFactory, desc *host.Descriptor) error {
	if typ == "" {
		return fmt.Errorf("%w: empty identifier", registry.ErrMissingType)
	}
	if factory == nil {
		return fmt.Errorf("node type %q: nil instance factory", typ)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.types[typ]; dup {
		return fmt.Errorf("%w: %q", registry.ErrAlreadyInitialized, typ)
	}
	h.types[typ] = &registeredType{typ: typ, factory: factory, desc: desc}
	h.logger.Debug("Node type registered.", "type", typ)
	return nil
}

// HasType reports whether typ has been installed.
func (h *Host) HasType(typ string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.types[typ]
	return ok
}

// Types returns the installed type identifiers, for diagnostics.
func (h *Host) Types() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.types))
	for typ := range h.types {
		out = append(out, typ)
	}
	return out
}

// Descriptor returns the stored registration descriptor for typ, or nil.
func (h *Host) Descriptor(typ string) *host.Descriptor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if rt, ok := h.types[typ]; ok {
		return rt.desc
	}
	return nil
}

// Runtime returns the per-type surface handed to Initializer.Init.
func (h *Host) Runtime(typ string) node.Runtime {
	return &typeRuntime{h: h, typ: typ}
}

// Logger returns the host logger.
func (h *Host) Logger() *slog.Logger { return h.logger }

// Routes exposes the admin HTTP mux for type-level route registration.
func (h *Host) Routes() node.RouteRegistrar { return h.mux }

// GlobalContext returns the host-wide context scope.
func (h *Host) GlobalContext() node.KV {
	return contextstore.Scoped(h.store, contextstore.GlobalScope)
}

// EvaluateProperty resolves an HCL property expression against msg, which
// is exposed to the expression as the `msg` object.
func (h *Host) EvaluateProperty(_ context.Context, expr string, msg *node.Message) (any, error) {
	fields := map[string]any{}
	shape := map[string]any{"id": "", "topic": "", "payload": nil, "fields": fields}
	if msg != nil {
		shape["id"] = msg.ID
		shape["topic"] = msg.Topic
		shape["payload"] = msg.Payload
		if msg.Fields != nil {
			shape["fields"] = msg.Fields
		}
	}
	msgVal, err := hclval.FromGo(shape)
	if err != nil {
		return nil, fmt.Errorf("property %q: message is not expressible: %w", expr, err)
	}
	return hclval.Evaluate(expr, map[string]cty.Value{"msg": msgVal})
}

// Status returns the last status a node instance reported, if any.
func (h *Host) Status(addr address.Address) (node.Status, bool) {
	return h.board.get(addr)
}

// Close undeploys every flow, stops the dispatcher after the queue drains,
// and waits for it to exit. The context bounds the close handlers' grace
// period.
func (h *Host) Close(ctx context.Context) error {
	h.mu.RLock()
	ids := make([]string, 0, len(h.flows))
	for id := range h.flows {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		if err := h.Undeploy(ctx, id, false); err != nil {
			h.logger.Warn("Undeploy during close failed.", "flow_id", id, "error", err)
		}
	}

	h.queue.close()
	<-h.stopped
	h.logger.Info("🏁 Host stopped", "host", h.name)
	return nil
}

// typeRuntime is the node.Runtime a definition's Init receives.
type typeRuntime struct {
	h   *Host
	typ string
}

func (r *typeRuntime) Type() string { return r.typ }

func (r *typeRuntime) Logger() *slog.Logger {
	return r.h.logger.With("type", r.typ)
}

func (r *typeRuntime) Routes() node.RouteRegistrar { return r.h.mux }

func (r *typeRuntime) GlobalContext() node.KV { return r.h.GlobalContext() }
