package devhost

import (
	"sync"

	"github.com/rzaytsev/flowbind/internal/address"
	"github.com/rzaytsev/flowbind/node"
)

// statusBoard holds the last status each instance reported. Reporting the
// zero status clears the entry, so the board only ever lists instances that
// currently show something.
type statusBoard struct {
	mu      sync.RWMutex
	entries map[address.Address]node.Status
}

func newStatusBoard() *statusBoard {
	return &statusBoard{entries: make(map[address.Address]node.Status)}
}

func (b *statusBoard) set(addr address.Address, s node.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.Empty() {
		delete(b.entries, addr)
		return
	}
	b.entries[addr] = s
}

func (b *statusBoard) get(addr address.Address) (node.Status, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.entries[addr]
	return s, ok
}

func (b *statusBoard) clear(addr address.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, addr)
}

// snapshot copies the board for the admin surface.
func (b *statusBoard) snapshot() map[string]node.Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]node.Status, len(b.entries))
	for addr, s := range b.entries {
		out[addr.String()] = s
	}
	return out
}
