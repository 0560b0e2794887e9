package registry

import (
	"github.com/rzaytsev/flowbind/host"
	"github.com/rzaytsev/flowbind/node"
)

// eventBinding is one row of the static lifecycle-event table: the event
// name, how to detect that a definition handles it, and how to subscribe a
// constructed instance's handler. The table is the authoritative enumeration
// of supported events; adding an event means adding a hook interface in the
// node package and a row here.
type eventBinding struct {
	event node.Event
	probe func(def node.Definition) bool
	bind  func(def node.Definition, b host.EventBinder)
}

var bindings = []eventBinding{
	{
		event: node.EventInput,
		probe: func(def node.Definition) bool {
			_, ok := def.(node.InputHandler)
			return ok
		},
		bind: func(def node.Definition, b host.EventBinder) {
			b.BindInput(def.(node.InputHandler).OnInput)
		},
	},
	{
		event: node.EventClose,
		probe: func(def node.Definition) bool {
			_, ok := def.(node.CloseHandler)
			return ok
		},
		bind: func(def node.Definition, b host.EventBinder) {
			b.BindClose(def.(node.CloseHandler).OnClose)
		},
	},
}
