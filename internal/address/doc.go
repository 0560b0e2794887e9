/*
Package address provides the structured representation of a node instance
identifier, based on the canonical format `flow.node`.

The flow part names the owning flow, the node part names the instance within
it. Wire references inside a flow definition may omit the flow part; ParseRef
resolves those against the enclosing flow.
*/
package address
