package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/rzaytsev/flowbind/host"
	"github.com/rzaytsev/flowbind/node"
)

// fakeHost records everything the registry does to it.
type fakeHost struct {
	factories map[string]host.InstanceFactory
	descs     map[string]*host.Descriptor
	installs  []string
	routes    *fakeRoutes
	global    *fakeKV
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		factories: map[string]host.InstanceFactory{},
		descs:     map[string]*host.Descriptor{},
		routes:    &fakeRoutes{},
		global:    newFakeKV(),
	}
}

func (h *fakeHost) RegisterType(_ context.Context, typ string, f host.InstanceFactory, desc *host.Descriptor) error {
	if _, dup := h.factories[typ]; dup {
		return fmt.Errorf("%w: %q", ErrAlreadyInitialized, typ)
	}
	h.factories[typ] = f
	h.descs[typ] = desc
	h.installs = append(h.installs, typ)
	return nil
}

func (h *fakeHost) HasType(typ string) bool {
	_, ok := h.factories[typ]
	return ok
}

func (h *fakeHost) Runtime(typ string) node.Runtime {
	return &fakeRuntime{typ: typ, h: h}
}

func (h *fakeHost) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (h *fakeHost) Routes() node.RouteRegistrar { return h.routes }

func (h *fakeHost) GlobalContext() node.KV { return h.global }

func (h *fakeHost) EvaluateProperty(_ context.Context, expr string, _ *node.Message) (any, error) {
	return expr, nil
}

type fakeRuntime struct {
	typ string
	h   *fakeHost
}

func (r *fakeRuntime) Type() string { return r.typ }

func (r *fakeRuntime) Logger() *slog.Logger { return r.h.Logger() }

func (r *fakeRuntime) Routes() node.RouteRegistrar { return r.h.routes }

func (r *fakeRuntime) GlobalContext() node.KV { return r.h.global }

type fakeRoutes struct {
	patterns []string
}

func (r *fakeRoutes) Handle(pattern string, _ http.Handler) {
	r.patterns = append(r.patterns, pattern)
}

func (r *fakeRoutes) HandleFunc(pattern string, _ func(http.ResponseWriter, *http.Request)) {
	r.patterns = append(r.patterns, pattern)
}

type fakeKV struct {
	mu   sync.Mutex
	data map[string]any
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]any{}} }

func (kv *fakeKV) Get(_ context.Context, key string) (any, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *fakeKV) Set(_ context.Context, key string, value any) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func (kv *fakeKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

func (kv *fakeKV) Keys(_ context.Context) ([]string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	keys := make([]string, 0, len(kv.data))
	for k := range kv.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// fakeBinder records which handlers an instance bound.
type fakeBinder struct {
	input node.InputFunc
	close node.CloseFunc
}

func (b *fakeBinder) BindInput(fn node.InputFunc) { b.input = fn }
func (b *fakeBinder) BindClose(fn node.CloseFunc) { b.close = fn }

// Test node definitions.

// fullNode exercises every optional hook.
type fullNode struct {
	node.Base
	initCalls int
	lastMsg   *node.Message
}

func (n *fullNode) Type() string { return "node1" }

func (n *fullNode) Credentials() map[string]node.CredentialField {
	return map[string]node.CredentialField{
		"username": {Type: "text", Required: true},
	}
}

func (n *fullNode) Settings() map[string]node.Setting {
	return map[string]node.Setting{
		"customSetting": {Value: "default", Exportable: true},
	}
}

func (n *fullNode) Init(_ context.Context, rt node.Runtime) error {
	n.initCalls++
	rt.Routes().HandleFunc("/node1/info", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return nil
}

func (n *fullNode) OnInput(_ context.Context, msg *node.Message, send node.SendFunc, done node.DoneFunc) {
	n.lastMsg = msg
	send(&node.Message{Payload: msg.Payload})
	done(nil)
}

func (n *fullNode) OnClose(_ context.Context, _ bool, done node.DoneFunc) {
	done(nil)
}

// inputOnlyNode handles input but declares no other hook.
type inputOnlyNode struct{ node.Base }

func (n *inputOnlyNode) Type() string { return "inputonly" }

func (n *inputOnlyNode) OnInput(_ context.Context, _ *node.Message, _ node.SendFunc, done node.DoneFunc) {
	done(nil)
}

// bareNode has a type and nothing else.
type bareNode struct{ node.Base }

func (n *bareNode) Type() string { return "bare" }

// untypedNode embeds the base but resolves no type.
type untypedNode struct{ node.Base }

func (n *untypedNode) Type() string { return "" }

// outsiderNode satisfies node.Definition without embedding node.Base.
type outsiderNode struct{}

func (n *outsiderNode) Type() string { return "outsider" }

// dupA and dupB both claim the same type identifier.
type dupA struct{ node.Base }

func (n *dupA) Type() string { return "dup" }

type dupB struct{ node.Base }

func (n *dupB) Type() string { return "dup" }

var errInitBoom = errors.New("init boom")

// failingInitNode rejects its one-time initialization.
type failingInitNode struct{ node.Base }

func (n *failingInitNode) Type() string { return "failinit" }

func (n *failingInitNode) Init(context.Context, node.Runtime) error {
	return errInitBoom
}
