package node

import (
	"context"
	"log/slog"
	"net/http"
)

// Runtime is the per-type surface a host hands to Initializer.Init. It is
// scoped to the type being registered, not to any instance.
type Runtime interface {
	// Type returns the node type identifier being registered.
	Type() string

	// Logger returns a logger tagged with the node type.
	Logger() *slog.Logger

	// Routes exposes the host's HTTP admin surface so a type can register
	// auxiliary endpoints during Init.
	Routes() RouteRegistrar

	// GlobalContext returns the host-wide key/value store.
	GlobalContext() KV
}

// RouteRegistrar registers HTTP handlers on the host's admin server.
type RouteRegistrar interface {
	Handle(pattern string, handler http.Handler)
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
}

// KV is a scoped key/value context store. Hosts provide one per flow and
// one per process; values live for the scope's lifetime, independent of
// node instances.
type KV interface {
	// Get returns the value for key. The second result reports whether the
	// key was present.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys in the scope, sorted.
	Keys(ctx context.Context) ([]string, error)
}
