// Package devhost is the in-process flow runtime shipped with this
// repository. It implements the host.Host registration surface and owns
// everything node instances need at runtime: the type table, per-instance
// event binding, a single-goroutine dispatch queue with in-process wire
// routing, flow deploy/undeploy, property evaluation, status tracking, and
// the admin HTTP surface.
//
// A Host is self-contained; tests can run several independent hosts in one
// process. Delivery order per host follows enqueue order, since one
// dispatcher goroutine drains the queue.
package devhost
