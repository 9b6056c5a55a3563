package kit

import (
	"sort"
	"sync"
)

// Feed is the observable-state primitive behind the stores: it holds a
// current value and pushes every published value to all live subscribers.
// A new subscriber immediately receives the latest value (when one has
// been published), then every subsequent update in publish order.
//
// Delivery happens synchronously under the feed lock, which is what makes
// "no missed updates, ordered delivery" hold; callbacks must therefore be
// quick and must not re-enter the feed.
type Feed[T any] struct {
	mu     sync.Mutex
	value  T
	seeded bool
	subs   map[int]func(T)
	nextID int
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[int]func(T))}
}

// Publish records v as the current value and delivers it to every
// subscriber before returning.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.value = v
	f.seeded = true

	ids := make([]int, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		f.subs[id](v)
	}
}

// Latest returns the current value and whether one has been published.
func (f *Feed[T]) Latest() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.seeded
}

// Subscribe registers fn and replays the latest value to it immediately.
// The returned function cancels the subscription.
func (f *Feed[T]) Subscribe(fn func(T)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = fn

	if f.seeded {
		fn(f.value)
	}

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}
