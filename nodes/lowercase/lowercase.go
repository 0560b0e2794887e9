// Package lowercase is the minimal node: one input handler that lowercases
// string payloads and passes everything else through untouched.
package lowercase

import (
	"context"
	"strings"

	"github.com/rzaytsev/flowbind/node"
)

// Node lowercases string payloads.
type Node struct {
	node.Base
}

// Type returns the node type identifier.
func (n *Node) Type() string { return "lowercase" }

// OnInput lowercases the payload when it is a string and forwards the
// message.
func (n *Node) OnInput(_ context.Context, msg *node.Message, send node.SendFunc, done node.DoneFunc) {
	if s, ok := msg.Payload.(string); ok {
		msg.Payload = strings.ToLower(s)
	}
	send(msg)
	done(nil)
}
