// Package watch implements the snapshot-broadcast primitive behind the
// reactive read API: writers publish complete snapshots, observers receive
// them through conflating subscriptions. A subscriber that falls behind is
// skipped forward to the newest snapshot rather than queueing stale ones.
package watch

import "sync"

type Broadcaster[T any] struct {
	mu      sync.Mutex
	subs    map[*Subscription[T]]struct{}
	last    T
	hasLast bool
}

func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscribe registers a new observer. If a snapshot has been published
// before, it is replayed so the observer starts from the current state.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Subscription[T]{ch: make(chan T, 1), b: b}
	b.subs[s] = struct{}{}
	if b.hasLast {
		s.ch <- b.last
	}
	return s
}

// Publish delivers a snapshot to every active subscriber before returning.
// A pending undelivered snapshot is replaced, never queued behind.
func (b *Broadcaster[T]) Publish(snapshot T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = snapshot
	b.hasLast = true
	for s := range b.subs {
		select {
		case s.ch <- snapshot:
		default:
			// Drop the stale pending snapshot, then deliver the new one.
			select {
			case <-s.ch:
			default:
			}
			s.ch <- snapshot
		}
	}
}

// Subscribers reports the number of active subscriptions.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster[T]) remove(s *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
}

// Subscription is a single observer's view of a Broadcaster.
type Subscription[T any] struct {
	ch   chan T
	b    *Broadcaster[T]
	once sync.Once
}

// Updates returns the snapshot channel. The channel is closed by Cancel,
// never by the broadcaster.
func (s *Subscription[T]) Updates() <-chan T {
	return s.ch
}

// Cancel unregisters the observer and closes its channel. Snapshots
// published afterwards are not delivered. Cancel is idempotent.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() { s.b.remove(s) })
}
