package cart

import "sync"

// Snapshot is what presentation surfaces re-render from: a fresh copy of
// the cart plus totals computed from that exact state.
type Snapshot struct {
	Lines  []Line `json:"items"`
	Totals Totals `json:"totals"`
}

// Broadcaster fans each snapshot out to every registered surface after a
// mutation. Surfaces recompute their whole view from the snapshot; there is
// no diffing and no partial update.
type Broadcaster struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(Snapshot)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{handlers: map[int]func(Snapshot){}}
}

// Subscribe registers fn and returns its cancel func. A nil fn is accepted
// and skipped on publish, so optional surfaces can subscribe unconditionally.
func (b *Broadcaster) Subscribe(fn func(Snapshot)) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

func (b *Broadcaster) publish(snap Snapshot) {
	b.mu.Lock()
	fns := make([]func(Snapshot), 0, len(b.handlers))
	for _, fn := range b.handlers {
		if fn != nil {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
