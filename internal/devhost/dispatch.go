package devhost

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rzaytsev/flowbind/internal/address"
	"github.com/rzaytsev/flowbind/node"
)

// delivery is one message on its way to one instance's input handler.
type delivery struct {
	inst *liveInstance
	msg  *node.Message
}

// dispatchQueue is an unbounded FIFO. Handlers send from inside the
// dispatcher goroutine, so a bounded channel could deadlock the loop once
// full; feedback wires make that a real case, not a corner.
type dispatchQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []delivery
	closed bool
}

func newDispatchQueue() *dispatchQueue {
	q := &dispatchQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a delivery. Pushing to a closed queue reports false.
func (q *dispatchQueue) push(d delivery) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, d)
	q.cond.Signal()
	return true
}

// pop blocks until a delivery is available or the queue is closed and
// drained.
func (q *dispatchQueue) pop() (delivery, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return delivery{}, false
	}
	d := q.items[0]
	q.items = q.items[1:]
	return d, true
}

func (q *dispatchQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// dispatch is the host's single delivery loop. Running deliveries on one
// goroutine keeps per-host ordering equal to enqueue ordering.
func (h *Host) dispatch() {
	defer close(h.stopped)
	h.logger.Debug("Dispatcher started.")

	for {
		d, ok := h.queue.pop()
		if !ok {
			break
		}
		h.process(d)
	}

	h.logger.Debug("Dispatcher finished.")
}

// process hands one delivery to the instance's input handler. The done
// callback completes the delivery exactly once; extra calls are logged and
// ignored.
func (h *Host) process(d delivery) {
	fn, ok := d.inst.inputFn()
	if !ok {
		if d.inst.isGone() {
			d.inst.logger.Debug("Dropping message for undeployed instance.", "msg_id", d.msg.ID)
		} else {
			d.inst.logger.Warn("Message arrived but the node binds no input handler.", "msg_id", d.msg.ID)
		}
		h.wg.Done()
		return
	}

	var once sync.Once
	done := func(err error) {
		completed := false
		once.Do(func() {
			completed = true
			if err != nil {
				d.inst.logger.Error("Node reported a failed delivery.", "msg_id", d.msg.ID, "error", err)
			}
			h.wg.Done()
		})
		if !completed {
			d.inst.logger.Warn("Done callback invoked more than once.", "msg_id", d.msg.ID)
		}
	}

	fn(h.baseCtx, d.msg, h.sendFrom(d.inst.addr), done)
}

// sendFrom builds the SendFunc handed to one instance's input handler.
// Messages without an id get one assigned before routing.
func (h *Host) sendFrom(from address.Address) node.SendFunc {
	return func(msgs ...*node.Message) {
		for _, m := range msgs {
			if m == nil {
				continue
			}
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			h.route(from, m)
		}
	}
}

// route fans a message out along the sender's wires. The first wire gets
// the original message, later wires get clones, so no two recipients share
// a fields map.
func (h *Host) route(from address.Address, msg *node.Message) {
	h.mu.RLock()
	targets, err := h.graph.Targets(from)
	h.mu.RUnlock()
	if err != nil || len(targets) == 0 {
		h.logger.Debug("Message has nowhere to go.", "from", from.String(), "msg_id", msg.ID)
		return
	}

	for i, target := range targets {
		m := msg
		if i > 0 {
			m = msg.Clone()
			m.ID = uuid.NewString()
		}
		h.deliver(target, m)
	}
}

// deliver enqueues a message for one instance.
func (h *Host) deliver(to address.Address, msg *node.Message) {
	h.mu.RLock()
	li := h.instances[to]
	h.mu.RUnlock()
	if li == nil {
		h.logger.Warn("Wire points at an instance that is not deployed.", "to", to.String(), "msg_id", msg.ID)
		return
	}

	h.wg.Add(1)
	if !h.queue.push(delivery{inst: li, msg: msg}) {
		h.wg.Done()
		h.logger.Debug("Host is closing; message dropped.", "to", to.String(), "msg_id", msg.ID)
	}
}

// Inject enqueues a message for the instance at addr, as if a wire had
// delivered it. Tests and the CLI use it to drive flows.
func (h *Host) Inject(_ context.Context, addr address.Address, payload any) error {
	h.mu.RLock()
	li := h.instances[addr]
	h.mu.RUnlock()
	if li == nil {
		return fmt.Errorf("no deployed node at %s", addr)
	}

	msg := &node.Message{ID: uuid.NewString(), Payload: payload}
	h.wg.Add(1)
	if !h.queue.push(delivery{inst: li, msg: msg}) {
		h.wg.Done()
		return fmt.Errorf("host is closing")
	}
	return nil
}

// Drain blocks until every delivery enqueued so far has completed, or ctx
// expires. A handler that never calls done holds Drain open.
func (h *Host) Drain(ctx context.Context) error {
	settled := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(settled)
	}()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining deliveries: %w", ctx.Err())
	}
}
