// Package events is the in-process publish/subscribe bus that decouples
// the confirm broker, toasts and the views.
package events

import "sync"

// Topic fans a message type out to every current subscriber.
type Topic[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan T
}

// Subscribe registers a subscriber with the given buffer size. The
// returned cancel func unregisters it and closes the channel; it is safe
// to call more than once.
func (t *Topic[T]) Subscribe(buf int) (<-chan T, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.subs == nil {
		t.subs = make(map[int]chan T)
	}
	id := t.nextID
	t.nextID++
	ch := make(chan T, buf)
	t.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if c, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber that has room for it and
// returns how many received it. It never blocks.
func (t *Topic[T]) Publish(msg T) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	delivered := 0
	for _, ch := range t.subs {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// HasSubscribers reports whether anyone is listening.
func (t *Topic[T]) HasSubscribers() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs) > 0
}
