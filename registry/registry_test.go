package registry

import (
	"context"
	"testing"

	"github.com/rzaytsev/flowbind/host"
	"github.com/rzaytsev/flowbind/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptContractChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("definition without the embedded base is rejected", func(t *testing.T) {
		h := newFakeHost()

		_, err := Adapt(ctx, h, &outsiderNode{})

		require.ErrorIs(t, err, ErrContractViolation)
		assert.Empty(t, h.installs)
	})

	t.Run("empty type identifier is rejected", func(t *testing.T) {
		h := newFakeHost()

		_, err := Adapt(ctx, h, &untypedNode{})

		require.ErrorIs(t, err, ErrMissingType)
	})

	t.Run("contract check runs before the type check", func(t *testing.T) {
		// outsiderNode has a valid type but no base; the violation wins.
		_, err := Adapt(ctx, newFakeHost(), &outsiderNode{})
		assert.NotErrorIs(t, err, ErrMissingType)
		assert.ErrorIs(t, err, ErrContractViolation)
	})

	t.Run("type already held by the host is rejected", func(t *testing.T) {
		h := newFakeHost()
		require.NoError(t, Register(ctx, h, &dupA{}))

		_, err := Adapt(ctx, h, &dupB{})

		require.ErrorIs(t, err, ErrAlreadyInitialized)
	})
}

func TestAdaptDescriptor(t *testing.T) {
	ctx := context.Background()

	t.Run("credentials pass through and settings are namespaced", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &fullNode{})
		require.NoError(t, err)

		desc := reg.Properties()
		require.NotNil(t, desc)
		assert.Equal(t, map[string]node.CredentialField{
			"username": {Type: "text", Required: true},
		}, desc.Credentials)
		assert.Equal(t, map[string]node.Setting{
			"node1CustomSetting": {Value: "default", Exportable: true},
		}, desc.Settings)
	})

	t.Run("definition without schemas yields empty descriptor", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &bareNode{})
		require.NoError(t, err)

		desc := reg.Properties()
		require.NotNil(t, desc)
		assert.Nil(t, desc.Credentials)
		assert.Nil(t, desc.Settings)
	})
}

func TestAdaptEventProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("only implemented hooks are recorded", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &inputOnlyNode{})
		require.NoError(t, err)

		assert.Equal(t, []node.Event{node.EventInput}, reg.Events())
		assert.True(t, reg.Handles(node.EventInput))
		assert.False(t, reg.Handles(node.EventClose))
	})

	t.Run("a full definition records both events", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &fullNode{})
		require.NoError(t, err)

		assert.Equal(t, []node.Event{node.EventInput, node.EventClose}, reg.Events())
	})

	t.Run("a hookless definition records none", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &bareNode{})
		require.NoError(t, err)

		assert.Empty(t, reg.Events())
	})
}

func TestAdaptInit(t *testing.T) {
	ctx := context.Background()

	t.Run("init runs once during adaptation", func(t *testing.T) {
		h := newFakeHost()
		def := &fullNode{}

		_, err := Adapt(ctx, h, def)
		require.NoError(t, err)

		assert.Equal(t, 1, def.initCalls)
		assert.Contains(t, h.routes.patterns, "/node1/info")
	})

	t.Run("init failure surfaces the original error", func(t *testing.T) {
		_, err := Adapt(ctx, newFakeHost(), &failingInitNode{})

		require.Error(t, err)
		var initErr *InitError
		require.ErrorAs(t, err, &initErr)
		assert.Equal(t, "failinit", initErr.Type)
		assert.ErrorIs(t, err, errInitBoom)
	})
}

func TestNewInstance(t *testing.T) {
	ctx := context.Background()

	newInstance := func(t *testing.T, reg *Registration, id string) (node.Definition, *fakeBinder) {
		t.Helper()
		binder := &fakeBinder{}
		inst, err := reg.NewInstance(ctx, &host.Instance{
			Wiring: node.Wiring{ID: id, Flow: "f1"},
			Binder: binder,
		})
		require.NoError(t, err)
		return inst, binder
	}

	t.Run("instances come out wired and bound", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &fullNode{})
		require.NoError(t, err)

		inst, binder := newInstance(t, reg, "i-1")

		base := node.BaseOf(inst)
		require.NotNil(t, base)
		assert.Equal(t, "i-1", base.ID())
		assert.Equal(t, "f1", base.Flow())
		require.NotNil(t, binder.input)
		require.NotNil(t, binder.close)

		// The bound handler drives the fresh instance, not the prototype.
		var sent []*node.Message
		var doneErr error
		msg := &node.Message{Payload: "ping"}
		binder.input(ctx, msg, func(msgs ...*node.Message) {
			sent = append(sent, msgs...)
		}, func(err error) { doneErr = err })

		require.NoError(t, doneErr)
		require.Len(t, sent, 1)
		assert.Equal(t, "ping", sent[0].Payload)
		assert.Same(t, msg, inst.(*fullNode).lastMsg)
	})

	t.Run("unimplemented hooks stay unbound", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &inputOnlyNode{})
		require.NoError(t, err)

		_, binder := newInstance(t, reg, "i-2")

		assert.NotNil(t, binder.input)
		assert.Nil(t, binder.close)
	})

	t.Run("each call produces an independent instance", func(t *testing.T) {
		reg, err := Adapt(ctx, newFakeHost(), &fullNode{})
		require.NoError(t, err)

		a, _ := newInstance(t, reg, "i-a")
		b, _ := newInstance(t, reg, "i-b")

		require.NotSame(t, a, b)
		assert.Equal(t, "i-a", node.BaseOf(a).ID())
		assert.Equal(t, "i-b", node.BaseOf(b).ID())
	})

	t.Run("the prototype itself is never attached", func(t *testing.T) {
		proto := &fullNode{}
		reg, err := Adapt(ctx, newFakeHost(), proto)
		require.NoError(t, err)

		newInstance(t, reg, "i-c")

		assert.Empty(t, proto.ID())
		require.NoError(t, proto.Attach(node.Wiring{ID: "still-free"}))
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("installs in input order", func(t *testing.T) {
		h := newFakeHost()

		err := Register(ctx, h, &fullNode{}, &inputOnlyNode{}, &bareNode{})

		require.NoError(t, err)
		assert.Equal(t, []string{"node1", "inputonly", "bare"}, h.installs)
		assert.True(t, h.HasType("node1"))
		require.NotNil(t, h.descs["node1"])
		assert.Contains(t, h.descs["node1"].Settings, "node1CustomSetting")
	})

	t.Run("missing type fails before any host call", func(t *testing.T) {
		h := newFakeHost()

		err := Register(ctx, h, &fullNode{}, &untypedNode{})

		require.ErrorIs(t, err, ErrMissingType)
		assert.Empty(t, h.installs, "validation must precede installation")
	})

	t.Run("contract violation fails before any host call", func(t *testing.T) {
		h := newFakeHost()

		err := Register(ctx, h, &fullNode{}, &outsiderNode{})

		require.ErrorIs(t, err, ErrContractViolation)
		assert.Empty(t, h.installs)
	})

	t.Run("duplicate type fails on the second definition", func(t *testing.T) {
		h := newFakeHost()

		err := Register(ctx, h, &dupA{}, &dupB{})

		require.ErrorIs(t, err, ErrAlreadyInitialized)
		assert.Equal(t, []string{"dup"}, h.installs, "the first definition stays installed")
	})

	t.Run("init error leaves the type uninstalled", func(t *testing.T) {
		h := newFakeHost()

		err := Register(ctx, h, &failingInitNode{})

		require.ErrorIs(t, err, errInitBoom)
		assert.False(t, h.HasType("failinit"))
		assert.Empty(t, h.installs)
	})

	t.Run("init runs once however many instances follow", func(t *testing.T) {
		h := newFakeHost()
		def := &fullNode{}
		require.NoError(t, Register(ctx, h, def))

		factory := h.factories["node1"]
		require.NotNil(t, factory)
		for i := 0; i < 3; i++ {
			_, err := factory(ctx, &host.Instance{Binder: &fakeBinder{}})
			require.NoError(t, err)
		}

		assert.Equal(t, 1, def.initCalls)
	})
}
