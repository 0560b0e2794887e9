package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageClone(t *testing.T) {
	t.Run("fields map is independent", func(t *testing.T) {
		orig := &Message{
			ID:      "m1",
			Topic:   "t",
			Payload: "hello",
			Fields:  map[string]any{"count": 1},
		}

		cp := orig.Clone()
		require.NotSame(t, orig, cp)
		assert.Equal(t, orig.ID, cp.ID)
		assert.Equal(t, orig.Payload, cp.Payload)

		cp.SetField("count", 2)
		assert.Equal(t, 1, orig.Field("count"))
		assert.Equal(t, 2, cp.Field("count"))
	})

	t.Run("nil fields stay nil", func(t *testing.T) {
		cp := (&Message{ID: "m2"}).Clone()
		assert.Nil(t, cp.Fields)
	})

	t.Run("nil message clones to nil", func(t *testing.T) {
		var m *Message
		assert.Nil(t, m.Clone())
	})
}

func TestMessageFields(t *testing.T) {
	m := &Message{}

	assert.Nil(t, m.Field("missing"))

	m.SetField("k", "v")
	assert.Equal(t, "v", m.Field("k"))

	var nilMsg *Message
	assert.Nil(t, nilMsg.Field("k"))
}
