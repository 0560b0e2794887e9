package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rzaytsev/flowbind/internal/contextstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Reading an absent key reports no value and no error.
	_, ok, err := s.Get(ctx, "flow-a", "counter")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "flow-a", "counter", 41))
	require.NoError(t, s.Set(ctx, "flow-a", "counter", 42))

	v, ok, err := s.Get(ctx, "flow-a", "counter")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestScopesAreIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "flow-a", "k", "a-side"))
	require.NoError(t, s.Set(ctx, contextstore.GlobalScope, "k", "global-side"))

	v, ok, err := s.Get(ctx, "flow-a", "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a-side", v)

	_, ok, err = s.Get(ctx, "flow-b", "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "f", "k", 1))
	require.NoError(t, s.Delete(ctx, "f", "k"))
	require.NoError(t, s.Delete(ctx, "f", "k")) // absent key is fine
	require.NoError(t, s.Delete(ctx, "never-seen", "k"))

	_, ok, err := s.Get(ctx, "f", "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeysSorted(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, k := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.Set(ctx, "f", k, true))
	}

	keys, err := s.Keys(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, keys)

	keys, err = s.Keys(ctx, "empty-scope")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestScopedView(t *testing.T) {
	s := New()
	ctx := context.Background()
	kv := contextstore.Scoped(s, "flow-a")

	require.NoError(t, kv.Set(ctx, "k", "v"))

	v, ok, err := s.Get(ctx, "flow-a", "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

// TestConcurrentAccess verifies the store survives simultaneous writers and
// readers without lost writes.
func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	const goroutines = 100
	var wg sync.WaitGroup

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			scope := fmt.Sprintf("flow-%d", i%4)
			key := fmt.Sprintf("key-%d", i)
			if err := s.Set(ctx, scope, key, i); err != nil {
				t.Errorf("set failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			scope := fmt.Sprintf("flow-%d", i%4)
			key := fmt.Sprintf("key-%d", i)
			v, ok, err := s.Get(ctx, scope, key)
			assert.NoError(t, err)
			assert.True(t, ok, "missing %s/%s", scope, key)
			assert.Equal(t, i, v)
		}(i)
	}
	wg.Wait()
}
