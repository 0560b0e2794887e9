package app

import (
	"github.com/rzaytsev/flowbind/node"
	"github.com/rzaytsev/flowbind/nodes/httpfetch"
	"github.com/rzaytsev/flowbind/nodes/lowercase"
	"github.com/rzaytsev/flowbind/nodes/print"
	"github.com/rzaytsev/flowbind/nodes/sioclient"
)

// builtinNodes is the definitive list of node types compiled into the
// flowbind binary.
func builtinNodes() []node.Definition {
	return []node.Definition{
		&lowercase.Node{},
		&print.Node{},
		&httpfetch.Node{},
		&sioclient.Node{},
	}
}
