package address

// Address identifies one node instance: the owning flow and the node name
// within it.
type Address struct {
	Flow string
	Node string
}

// New builds an address from its two parts.
func New(flow, nodeName string) Address {
	return Address{Flow: flow, Node: nodeName}
}

// String serializes the address into its canonical `flow.node` form.
func (a Address) String() string {
	if a.Flow == "" && a.Node == "" {
		return ""
	}
	return a.Flow + "." + a.Node
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a == Address{}
}
