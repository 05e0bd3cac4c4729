// Package event provides a typed, synchronous publish/subscribe bus.
package event

import "sync"

type subscription[E any] struct {
	id      uint64
	handler func(E)
}

// Bus delivers each published event to every current subscriber, in
// subscription order, on the publishing goroutine.
type Bus[E any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription[E]
}

func NewBus[E any]() *Bus[E] {
	return &Bus[E]{}
}

// Subscribe registers handler and returns a func that removes it. Calling
// the returned func more than once is a no-op.
func (b *Bus[E]) Subscribe(handler func(E)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[E]{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// Publish may be called from inside a handler; subscriptions changed during
// delivery take effect on the next Publish.
func (b *Bus[E]) Publish(e E) {
	b.mu.RLock()
	handlers := make([]func(E), 0, len(b.subs))
	for _, s := range b.subs {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

func (b *Bus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus[E]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}
