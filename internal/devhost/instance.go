package devhost

import (
	"log/slog"
	"sync"

	"github.com/rzaytsev/flowbind/internal/address"
	"github.com/rzaytsev/flowbind/node"
)

// liveInstance is the host-side record of one deployed node instance: the
// wired definition plus the handler slots its binder filled. One slot per
// event; binding replaces.
type liveInstance struct {
	addr   address.Address
	typ    string
	def    node.Definition
	logger *slog.Logger

	mu      sync.RWMutex
	onInput node.InputFunc
	onClose node.CloseFunc
	gone    bool
}

func (li *liveInstance) inputFn() (node.InputFunc, bool) {
	li.mu.RLock()
	defer li.mu.RUnlock()
	if li.gone || li.onInput == nil {
		return nil, false
	}
	return li.onInput, true
}

func (li *liveInstance) closeFn() node.CloseFunc {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.onClose
}

func (li *liveInstance) markGone() {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.gone = true
}

func (li *liveInstance) isGone() bool {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.gone
}

// instanceBinder implements host.EventBinder for one live instance.
type instanceBinder struct {
	inst *liveInstance
}

func (b *instanceBinder) BindInput(fn node.InputFunc) {
	b.inst.mu.Lock()
	defer b.inst.mu.Unlock()
	b.inst.onInput = fn
}

func (b *instanceBinder) BindClose(fn node.CloseFunc) {
	b.inst.mu.Lock()
	defer b.inst.mu.Unlock()
	b.inst.onClose = fn
}
