// Package contextstore defines the scoped key/value storage behind the
// flow and global context surfaces nodes see. Implementations live in the
// memory and sqlite subpackages; the host picks one at startup.
package contextstore

import (
	"context"

	"github.com/rzaytsev/flowbind/node"
)

// GlobalScope is the scope name of the host-wide context.
const GlobalScope = "global"

// Store persists context values per scope. Scopes are independent key
// spaces: the global scope plus one scope per flow.
type Store interface {
	Get(ctx context.Context, scope, key string) (any, bool, error)
	Set(ctx context.Context, scope, key string, value any) error
	Delete(ctx context.Context, scope, key string) error
	Keys(ctx context.Context, scope string) ([]string, error)
	Close() error
}

// Scoped fixes one scope of a Store into the node.KV view handed to node
// instances.
func Scoped(s Store, scope string) node.KV {
	return scopedKV{store: s, scope: scope}
}

type scopedKV struct {
	store Store
	scope string
}

func (kv scopedKV) Get(ctx context.Context, key string) (any, bool, error) {
	return kv.store.Get(ctx, kv.scope, key)
}

func (kv scopedKV) Set(ctx context.Context, key string, value any) error {
	return kv.store.Set(ctx, kv.scope, key, value)
}

func (kv scopedKV) Delete(ctx context.Context, key string) error {
	return kv.store.Delete(ctx, kv.scope, key)
}

func (kv scopedKV) Keys(ctx context.Context) ([]string, error) {
	return kv.store.Keys(ctx, kv.scope)
}
