package bus

import (
	"sync"
)

// MemBusConfig configures an in-memory event bus.
type MemBusConfig struct {
	// SubscriberBufferSize is the channel buffer size per subscriber (default: 64).
	SubscriberBufferSize int
}

// MemBus is an in-memory event bus implementation.
type MemBus struct {
	mu         sync.RWMutex
	subs       map[Kind][]*memSub
	globalSubs []*memSub
	bufSize    int
	closed     bool
}

// NewMemBus creates a new in-memory event bus with the given configuration.
func NewMemBus(config MemBusConfig) *MemBus {
	bufSize := config.SubscriberBufferSize
	if bufSize <= 0 {
		bufSize = 64
	}
	return &MemBus{
		subs:    make(map[Kind][]*memSub),
		bufSize: bufSize,
	}
}

// Publish sends an event to subscribers of its kind and to global
// subscribers. If the bus is closed, the event is silently dropped.
func (b *MemBus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs[event.Kind] {
		sub.send(event)
	}
	for _, sub := range b.globalSubs {
		sub.send(event)
	}
}

// Subscribe registers one subscription for all of the given kinds.
// On a closed bus the returned subscription is already closed.
func (b *MemBus) Subscribe(kinds ...Kind) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newMemSub(b, b.bufSize)
	if b.closed {
		sub.close()
		return sub
	}
	seen := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		b.subs[k] = append(b.subs[k], sub)
	}
	return sub
}

// SubscribeAll registers a subscriber that receives every event.
func (b *MemBus) SubscribeAll() Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newMemSub(b, b.bufSize)
	if b.closed {
		sub.close()
		return sub
	}
	b.globalSubs = append(b.globalSubs, sub)
	return sub
}

// Close shuts down the bus and all active subscriptions.
func (b *MemBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.subs {
		for _, sub := range subs {
			sub.close()
		}
	}
	for _, sub := range b.globalSubs {
		sub.close()
	}
	b.subs = make(map[Kind][]*memSub)
	b.globalSubs = nil

	return nil
}

// remove detaches sub from every registry slot it occupies.
func (b *MemBus) remove(sub *memSub) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for k, subs := range b.subs {
		b.subs[k] = without(subs, sub)
		if len(b.subs[k]) == 0 {
			delete(b.subs, k)
		}
	}
	b.globalSubs = without(b.globalSubs, sub)
}

// Subscribers reports how many live subscriptions receive events of kind k,
// including global ones.
func (b *MemBus) Subscribers(k Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[k]) + len(b.globalSubs)
}

func without(subs []*memSub, sub *memSub) []*memSub {
	out := subs[:0]
	for _, s := range subs {
		if s != sub {
			out = append(out, s)
		}
	}
	return out
}

type memSub struct {
	bus    *MemBus
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

func newMemSub(b *MemBus, bufSize int) *memSub {
	return &memSub{
		bus: b,
		ch:  make(chan Event, bufSize),
	}
}

// Events returns a channel of events for this subscription.
func (s *memSub) Events() <-chan Event {
	return s.ch
}

// Close unsubscribes and releases resources.
func (s *memSub) Close() error {
	s.bus.remove(s)
	s.close()
	return nil
}

// close performs the actual channel close, guarded against double-close.
func (s *memSub) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// send delivers an event to the subscription's channel.
// If the channel is full or the subscription is closed, the event is dropped.
func (s *memSub) send(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.ch <- event:
	default:
	}
}

var _ EventBus = (*MemBus)(nil)
var _ Subscription = (*memSub)(nil)
