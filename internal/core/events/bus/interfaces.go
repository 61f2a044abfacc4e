package bus

// EventBus is an in-process, synchronous pub/sub bus for simulation events.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type.
// - Synchronous delivery: Publish calls handlers in the caller goroutine, in
//   subscription order, so a tick's events are fully handled before it ends.
// - Error aggregation: handler errors are joined and returned from Publish/PublishBatch.
// - Optional observability: counters are kept only while observers are registered.
//
// Subscribing and cancelling are safe from any goroutine.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type.
	Publish(event Event) error
	// PublishBatch publishes events in order and joins errors across them.
	PublishBatch(events ...Event) error
	// PublishWithFilters drops the event without error if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error

	// Subscribe registers a handler for an event type. The "*" type receives every event.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// GetMetrics returns a snapshot of counters gathered while observed.
	GetMetrics() Metrics
}

// Event is a value published by the simulation. Data carries a typed payload
// defined by the publisher and must be treated as read-only.
type Event struct {
	Type   string
	Source string
	Tick   uint64
	Data   any
}

type (
	// EventHandler is invoked once per delivered event.
	EventHandler func(event Event) error
	// EventFilter decides whether an event should be delivered.
	EventFilter func(event Event) bool
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about every publish and its outcome.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error)
}

// Metrics holds counters updated only while at least one observer is registered.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
