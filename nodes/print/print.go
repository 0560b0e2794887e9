// Package print is a sink node that writes payloads to standard output and
// flashes a short-lived status, the way a debug node surfaces traffic.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rzaytsev/flowbind/node"
)

// statusFlash is how long the "printed" status stays visible.
const statusFlash = 500 * time.Millisecond

// Node prints every payload it receives.
type Node struct {
	node.Base

	// Out defaults to os.Stdout; tests point it elsewhere.
	Out io.Writer
}

// Type returns the node type identifier.
func (n *Node) Type() string { return "print" }

// Settings declares the host-visible configuration of the print node.
func (n *Node) Settings() map[string]node.Setting {
	return map[string]node.Setting{
		"prefix": {Value: "", Exportable: true},
	}
}

// OnInput writes the payload and flashes a status that clears on its own.
func (n *Node) OnInput(_ context.Context, msg *node.Message, _ node.SendFunc, done node.DoneFunc) {
	out := n.Out
	if out == nil {
		out = os.Stdout
	}

	prefix, _ := n.Prop("prefix").(string)
	if _, err := fmt.Fprintf(out, "%s%v\n", prefix, msg.Payload); err != nil {
		n.Error(err, msg)
		done(err)
		return
	}

	n.SetStatusFor(node.Status{Fill: node.FillGreen, Shape: node.ShapeDot, Text: "printed"}, statusFlash)
	done(nil)
}
