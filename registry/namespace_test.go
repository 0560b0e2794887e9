package registry

import (
	"testing"

	"github.com/rzaytsev/flowbind/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceSettings(t *testing.T) {
	t.Run("keys get the per-type prefix", func(t *testing.T) {
		in := map[string]node.Setting{
			"a": {Value: 1, Exportable: true},
			"b": {Value: 2},
		}

		out := NamespaceSettings("node1", in)

		require.Len(t, out, 2)
		assert.Equal(t, node.Setting{Value: 1, Exportable: true}, out["node1A"])
		assert.Equal(t, node.Setting{Value: 2}, out["node1B"])
		assert.NotContains(t, out, "a")
		assert.NotContains(t, out, "b")
	})

	t.Run("input map is left untouched", func(t *testing.T) {
		in := map[string]node.Setting{"customSetting": {Value: "default"}}

		NamespaceSettings("node1", in)

		require.Len(t, in, 1)
		assert.Contains(t, in, "customSetting")
	})

	t.Run("nil input yields nil output", func(t *testing.T) {
		assert.Nil(t, NamespaceSettings("node1", nil))
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		out := NamespaceSettings("node1", map[string]node.Setting{})
		require.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("separators in the type collapse to camel case", func(t *testing.T) {
		out := NamespaceSettings("http-fetch", map[string]node.Setting{"timeout": {Value: 5}})
		assert.Contains(t, out, "httpFetchTimeout")
	})
}

func TestCamelCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"node1", "node1"},
		{"Node1", "node1"},
		{"http-fetch", "httpFetch"},
		{"http_fetch", "httpFetch"},
		{"my socket client", "mySocketClient"},
		{"-leading", "leading"},
		{"", ""},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, camelCase(tc.in))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "CustomSetting", capitalize("customSetting"))
	assert.Equal(t, "A", capitalize("a"))
	assert.Equal(t, "", capitalize(""))
}
