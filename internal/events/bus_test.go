package events

import (
	"testing"
)

func TestBusDeliversInPublishOrder(t *testing.T) {
	bus := NewBus()

	var got []int
	cancel := bus.Subscribe(func(ev Event) {
		got = append(got, ev.Payload.(int))
	})
	defer cancel()

	for i := 0; i < 5; i++ {
		bus.Publish(TypeAlertCreated, i)
	}

	if len(got) != 5 {
		t.Fatalf("expected 5 events, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("event %d out of order: got %d", i, v)
		}
	}
}

func TestBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var a, b int
	cancelA := bus.Subscribe(func(Event) { a++ })
	cancelB := bus.Subscribe(func(Event) { b++ })
	defer cancelA()
	defer cancelB()

	bus.Publish(TypeDensityUpdated, nil)
	bus.Publish(TypeDensityUpdated, nil)

	if a != 2 || b != 2 {
		t.Fatalf("expected both subscribers to see 2 events, got %d and %d", a, b)
	}
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := NewBus()

	var n int
	cancel := bus.Subscribe(func(Event) { n++ })

	bus.Publish(TypeMessagePosted, nil)
	cancel()
	cancel() // idempotent
	bus.Publish(TypeMessagePosted, nil)

	if n != 1 {
		t.Fatalf("expected 1 event after cancel, got %d", n)
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish(TypeFixUpdated, "no one is listening")
}
