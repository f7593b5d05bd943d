// Package bus distributes platform lifecycle events (installability, network
// status, service-worker state) to subscribers. Producers publish events
// without knowing who listens; the install/update prompt manager owns its
// subscriptions and closes them on teardown.
package bus

import "time"

// Kind identifies a platform event.
type Kind string

const (
	KindInstallable      Kind = "installable"
	KindInstalled        Kind = "installed"
	KindOnline           Kind = "online"
	KindOffline          Kind = "offline"
	KindWorkerInstalled  Kind = "worker-installed"
	KindControllerChange Kind = "controller-change"
)

// Event is a single platform signal. Payload is kind-specific and may be nil.
type Event struct {
	Kind    Kind
	Payload any
	At      time.Time
}

// NewEvent stamps an event with the current time.
func NewEvent(kind Kind, payload any) Event {
	return Event{Kind: kind, Payload: payload, At: time.Now()}
}

// EventBus distributes events to subscribers.
type EventBus interface {
	// Publish sends an event to all matching subscribers.
	Publish(event Event)

	// Subscribe registers a subscriber for the given kinds.
	// Returns a Subscription that must be closed when done.
	Subscribe(kinds ...Kind) Subscription

	// SubscribeAll registers a subscriber that receives every event.
	SubscribeAll() Subscription

	// Close shuts down the bus and all subscriptions.
	Close() error
}

// Subscription receives events.
type Subscription interface {
	// Events returns a channel of events for this subscription.
	Events() <-chan Event

	// Close unsubscribes and releases resources.
	Close() error
}
