package pubsub

import "sync"

// Handler receives an event published on the Bus.
type Handler func(name EventName, payload any)

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	id       uint64
	name     EventName
	wildcard bool
}

type busHandler struct {
	id uint64
	fn Handler
}

// Bus is a synchronous, in-process publish/subscribe channel.
//
// Emit delivers to every handler registered at the moment of emission, in
// registration order, on the caller's goroutine. Handlers registered during
// an emission do not receive that emission. There is no persistence and no
// replay for late subscribers.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[EventName][]busHandler
	wildcard []busHandler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventName][]busHandler)}
}

// On registers a handler for a single event name.
func (b *Bus) On(name EventName, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[name] = append(b.handlers[name], busHandler{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID, name: name}
}

// OnAll registers a handler that receives every event regardless of name.
// Wildcard handlers run after the name-specific handlers and are intended
// for diagnostics.
func (b *Bus) OnAll(fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.wildcard = append(b.wildcard, busHandler{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID, wildcard: true}
}

// Off removes a previously registered handler. Removing a subscription that
// was already removed is a no-op.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.wildcard {
		b.wildcard = removeHandler(b.wildcard, sub.id)
		return
	}
	b.handlers[sub.name] = removeHandler(b.handlers[sub.name], sub.id)
	if len(b.handlers[sub.name]) == 0 {
		delete(b.handlers, sub.name)
	}
}

// Emit delivers payload to all handlers registered for name, then to all
// wildcard handlers. Delivery is synchronous; Emit returns after the last
// handler has run.
func (b *Bus) Emit(name EventName, payload any) {
	// Snapshot under lock so handlers may call On/Off without deadlocking,
	// and so registrations during this emission are excluded from it.
	b.mu.Lock()
	snapshot := make([]busHandler, 0, len(b.handlers[name])+len(b.wildcard))
	snapshot = append(snapshot, b.handlers[name]...)
	snapshot = append(snapshot, b.wildcard...)
	b.mu.Unlock()

	for _, h := range snapshot {
		h.fn(name, payload)
	}
}

// HandlerCount returns the number of handlers registered for name,
// not counting wildcard handlers.
func (b *Bus) HandlerCount(name EventName) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[name])
}

func removeHandler(hs []busHandler, id uint64) []busHandler {
	for i, h := range hs {
		if h.id == id {
			return append(hs[:i:i], hs[i+1:]...)
		}
	}
	return hs
}
