package flowfile

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of one flow file.
type fileRoot struct {
	Flows  []*flowBlock `hcl:"flow,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// flowBlock represents a `flow "<id>" { ... }` block.
type flowBlock struct {
	ID    string       `hcl:"id,label"`
	Entry string       `hcl:"entry,optional"`
	Nodes []*nodeBlock `hcl:"node,block"`
}

// nodeBlock represents a `node "<type>" "<name>" { ... }` block. Wires list
// the input targets of this node's output; bare names refer to nodes of the
// enclosing flow, `flow.node` forms may cross flows.
type nodeBlock struct {
	Type     string         `hcl:"node_type,label"`
	Name     string         `hcl:"instance_name,label"`
	Wires    []string       `hcl:"wires,optional"`
	Settings *settingsBlock `hcl:"settings,block"`
}

// settingsBlock carries the free-form per-instance configuration. Its
// attributes must be literal values; they are decoded at load time without
// an evaluation context.
type settingsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
