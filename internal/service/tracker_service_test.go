package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/models"
)

// scriptedSource lets the test hand-feed fixes and errors per actor
type scriptedSource struct {
	mu      sync.Mutex
	streams map[string]chan FixResult
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{streams: make(map[string]chan FixResult)}
}

func (s *scriptedSource) Watch(ctx context.Context, actorID string) (<-chan FixResult, error) {
	ch := make(chan FixResult)
	s.mu.Lock()
	s.streams[actorID] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (s *scriptedSource) send(actorID string, res FixResult) {
	s.mu.Lock()
	ch := s.streams[actorID]
	s.mu.Unlock()
	ch <- res
}

func fixAt(t time.Time) *models.Fix {
	return &models.Fix{Lat: 23.1815, Lng: 75.7804, AccuracyMeters: 10, ObservedAt: t}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestTrackerKeepsLatestFix(t *testing.T) {
	source := newScriptedSource()
	tracker := NewTrackerService(source, events.NewBus())
	defer tracker.StopAll()

	if err := tracker.Start("actor-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	base := time.Now()
	source.send("actor-1", FixResult{Fix: fixAt(base)})
	source.send("actor-1", FixResult{Fix: fixAt(base.Add(time.Second))})

	waitFor(t, func() bool {
		pos, err := tracker.Latest("actor-1")
		return err == nil && pos.UpdatedFix == 2
	})

	pos, err := tracker.Latest("actor-1")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if pos.Fix == nil || !pos.Fix.ObservedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("latest fix not retained: %+v", pos.Fix)
	}
	if pos.Staleness < 0 {
		t.Fatalf("staleness must be non-negative, got %s", pos.Staleness)
	}
}

func TestTrackerDiscardsStaleFix(t *testing.T) {
	source := newScriptedSource()
	tracker := NewTrackerService(source, events.NewBus())
	defer tracker.StopAll()

	tracker.Start("actor-1")

	base := time.Now()
	source.send("actor-1", FixResult{Fix: fixAt(base)})
	source.send("actor-1", FixResult{Fix: fixAt(base.Add(-time.Minute))}) // out of order

	// A third, newer fix proves the stale one was skipped, not queued
	source.send("actor-1", FixResult{Fix: fixAt(base.Add(time.Second))})
	waitFor(t, func() bool {
		pos, err := tracker.Latest("actor-1")
		return err == nil && pos.UpdatedFix == 2
	})

	pos, _ := tracker.Latest("actor-1")
	if !pos.Fix.ObservedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("stale fix overwrote a newer one: %+v", pos.Fix)
	}
}

func TestTrackerErrorRetainsPreviousFix(t *testing.T) {
	source := newScriptedSource()
	tracker := NewTrackerService(source, events.NewBus())
	defer tracker.StopAll()

	tracker.Start("actor-1")

	base := time.Now()
	source.send("actor-1", FixResult{Fix: fixAt(base)})
	source.send("actor-1", FixResult{Err: ErrFixTimeout})

	waitFor(t, func() bool {
		pos, err := tracker.Latest("actor-1")
		return err == nil && pos.LastError != ""
	})

	pos, _ := tracker.Latest("actor-1")
	if pos.Fix == nil || !pos.Fix.ObservedAt.Equal(base) {
		t.Fatal("observation error must not discard the previous fix")
	}
	if pos.LastError != ErrFixTimeout.Error() {
		t.Fatalf("expected timeout error, got %q", pos.LastError)
	}

	// A subsequent good fix clears the error
	source.send("actor-1", FixResult{Fix: fixAt(base.Add(time.Second))})
	waitFor(t, func() bool {
		pos, err := tracker.Latest("actor-1")
		return err == nil && pos.LastError == "" && pos.UpdatedFix == 2
	})
}

func TestTrackerStartIdempotent(t *testing.T) {
	source := newScriptedSource()
	tracker := NewTrackerService(source, events.NewBus())
	defer tracker.StopAll()

	tracker.Start("actor-1")
	tracker.Start("actor-1")
	if got := tracker.ActiveCount(); got != 1 {
		t.Fatalf("expected 1 active watch, got %d", got)
	}
}

func TestTrackerNoFixYet(t *testing.T) {
	source := newScriptedSource()
	tracker := NewTrackerService(source, events.NewBus())
	defer tracker.StopAll()

	tracker.Start("actor-1")
	pos, err := tracker.Latest("actor-1")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if !pos.Tracking || pos.Fix != nil || pos.UpdatedFix != 0 {
		t.Fatalf("expected tracking with no fix, got %+v", pos)
	}
}

func TestTrackerStopIsSynchronousAndIdempotent(t *testing.T) {
	source := newScriptedSource()
	bus := events.NewBus()
	tracker := NewTrackerService(source, bus)

	var delivered int
	cancel := bus.Subscribe(func(ev events.Event) {
		if ev.Type == events.TypeFixUpdated {
			delivered++
		}
	})
	defer cancel()

	tracker.Start("actor-1")
	source.send("actor-1", FixResult{Fix: fixAt(time.Now())})
	waitFor(t, func() bool {
		pos, err := tracker.Latest("actor-1")
		return err == nil && pos.UpdatedFix == 1
	})

	tracker.Stop("actor-1")
	settled := delivered

	if _, err := tracker.Latest("actor-1"); !errors.Is(err, ErrNotTracking) {
		t.Fatalf("expected ErrNotTracking after stop, got %v", err)
	}

	tracker.Stop("actor-1") // idempotent

	time.Sleep(20 * time.Millisecond)
	if delivered != settled {
		t.Fatal("fix delivered after Stop returned")
	}
}

func TestTrackerUnknownActor(t *testing.T) {
	tracker := NewTrackerService(newScriptedSource(), events.NewBus())
	if _, err := tracker.Latest("ghost"); !errors.Is(err, ErrNotTracking) {
		t.Fatalf("expected ErrNotTracking, got %v", err)
	}
}
