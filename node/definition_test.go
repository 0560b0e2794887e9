package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type HTTPFetch struct{ Base }

func (n *HTTPFetch) Type() string { return DeriveType(n) }

func TestDeriveType(t *testing.T) {
	assert.Equal(t, "httpfetch", DeriveType(&HTTPFetch{}))
	assert.Equal(t, "httpfetch", DeriveType(HTTPFetch{}))
	assert.Equal(t, "wirednode", DeriveType(&wiredNode{}))
	assert.Empty(t, DeriveType(nil))
}

func TestEvents(t *testing.T) {
	assert.Equal(t, []Event{EventInput, EventClose}, Events())
}
