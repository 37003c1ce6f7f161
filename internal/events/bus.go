package events

import (
	"sync"
	"time"
)

// Type names an outbound core event
type Type string

const (
	TypeFixUpdated         Type = "fix.updated"
	TypeDensityUpdated     Type = "density.updated"
	TypeAlertCreated       Type = "alert.created"
	TypeAlertResponded     Type = "alert.responded"
	TypeAlertResolved      Type = "alert.resolved"
	TypeSessionEstablished Type = "session.established"
	TypeSessionInvalidated Type = "session.invalidated"
	TypeMessagePosted      Type = "message.posted"
)

// Event is one outbound notification from the core to its callers
type Event struct {
	Type    Type
	At      time.Time
	Payload any
}

// Handler receives events. Handlers run synchronously on the publisher's
// goroutine so every subscriber observes the global publish order.
type Handler func(Event)

// Bus is an ordered in-process event fan-out. Publish delivers to every
// subscriber before returning; unsubscribe is synchronous, so no handler runs
// after its cancel function returns.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]Handler
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers a handler for all subsequent events and returns a
// cancel function. Cancel is idempotent.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers the event to every current subscriber before returning.
// The sequence of events each subscriber sees matches the global publish order.
func (b *Bus) Publish(t Type, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ev := Event{Type: t, At: time.Now(), Payload: payload}
	for _, h := range b.subs {
		h(ev)
	}
}
