package viewport

import (
	"slices"
	"sync"
)

// Broadcaster is a Notifier hosts embed to fan out resize events.
type Broadcaster struct {
	mu        sync.Mutex
	next      int
	listeners map[int]Listener
}

func (b *Broadcaster) OnResize(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[int]Listener)
	}
	id := b.next
	b.next++
	b.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Notify delivers s to every subscriber in subscription order.
func (b *Broadcaster) Notify(s Size) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	ls := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		ls = append(ls, b.listeners[id])
	}
	b.mu.Unlock()

	for _, l := range ls {
		l(s)
	}
}

// Listeners returns the number of active subscriptions.
func (b *Broadcaster) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
