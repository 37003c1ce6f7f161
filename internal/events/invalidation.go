package events

import (
	"github.com/safeyatra/safety-backend-go/internal/models"
)

// SessionInvalidation is the payload broadcast when a session ends, so other
// concurrently open sessions for the same identity can observe it
type SessionInvalidation struct {
	Identifier string                    `json:"identifier"`
	UserID     string                    `json:"userId"`
	Reason     models.InvalidationReason `json:"reason"`
}

// InvalidationBroadcaster carries session-invalidated signals between tabs or
// processes. Delivery is at-least-once; receivers must treat repeated signals
// for the same session as idempotent.
type InvalidationBroadcaster interface {
	Broadcast(inv SessionInvalidation) error
	Subscribe(fn func(SessionInvalidation)) (cancel func(), err error)
	Close() error
}

// LocalBroadcaster routes invalidations over the in-process event bus
type LocalBroadcaster struct {
	bus *Bus
}

// NewLocalBroadcaster wraps the given bus
func NewLocalBroadcaster(bus *Bus) *LocalBroadcaster {
	return &LocalBroadcaster{bus: bus}
}

// Broadcast publishes the invalidation to all bus subscribers
func (b *LocalBroadcaster) Broadcast(inv SessionInvalidation) error {
	b.bus.Publish(TypeSessionInvalidated, inv)
	return nil
}

// Subscribe delivers every subsequent invalidation to fn
func (b *LocalBroadcaster) Subscribe(fn func(SessionInvalidation)) (func(), error) {
	cancel := b.bus.Subscribe(func(ev Event) {
		if ev.Type != TypeSessionInvalidated {
			return
		}
		if inv, ok := ev.Payload.(SessionInvalidation); ok {
			fn(inv)
		}
	})
	return cancel, nil
}

// Close is a no-op for the in-process transport
func (b *LocalBroadcaster) Close() error { return nil }
