package bus

import (
	"sync"

	"github.com/jkaberg/kidde-hass/internal/kidde"
)

// Bus provides fan-out pub/sub semantics for *kidde.Snapshot* messages.
// Each Subscribe call gets its own channel that receives every future
// publication. Past messages are not replayed. The implementation is safe
// for concurrent publishers and subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan *kidde.Snapshot
}

// New creates a ready-to-use Bus.
func New() *Bus { return &Bus{} }

// Subscribe returns a read-only channel that will receive all future
// snapshots.
func (b *Bus) Subscribe() <-chan *kidde.Snapshot {
	ch := make(chan *kidde.Snapshot, 1) // small buffer avoids blocking
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers the snapshot to all subscribers in a best-effort,
// non-blocking way. A subscriber with a full buffer simply misses this
// snapshot and will receive the next one.
func (b *Bus) Publish(s *kidde.Snapshot) {
	b.mu.RLock()
	subs := make([]chan *kidde.Snapshot, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- s:
		default:
			continue
		}
	}
}
