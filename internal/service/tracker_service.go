package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/models"
)

// Telemetry failure modes. Each leaves the previous fix (if any) in place so
// staleness stays computable.
var (
	ErrPermissionDenied = errors.New("position access permission denied")
	ErrFixTimeout       = errors.New("no position fix within time bound")
	ErrUnsupported      = errors.New("position telemetry not supported")
	ErrNotTracking      = errors.New("actor is not being tracked")
)

// FixResult carries either a fix or a named observation error
type FixResult struct {
	Fix *models.Fix
	Err error
}

// FixSource opens a cancellable stream of fixes-or-errors for one actor.
// The stream is lazy, infinite and non-restartable; the source must close the
// channel once the context is cancelled.
type FixSource interface {
	Watch(ctx context.Context, actorID string) (<-chan FixResult, error)
}

// actorWatch is one live observation
type actorWatch struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	latest   *models.Fix
	lastErr  error
	fixCount int64
}

// TrackerService consumes continuous position fixes, one observation
// goroutine per tracked actor, and exposes the latest known fix with
// staleness. Fix acquisition never blocks request handling.
type TrackerService struct {
	source FixSource
	bus    *events.Bus

	mu      sync.Mutex
	watches map[string]*actorWatch
}

// NewTrackerService creates a tracker fed by the given source
func NewTrackerService(source FixSource, bus *events.Bus) *TrackerService {
	return &TrackerService{
		source:  source,
		bus:     bus,
		watches: make(map[string]*actorWatch),
	}
}

// FixUpdate is the event payload published on each accepted fix
type FixUpdate struct {
	ActorID string     `json:"actorId"`
	Fix     models.Fix `json:"fix"`
}

// Start begins continuous observation for an actor. Starting an actor that is
// already tracked is a no-op.
func (s *TrackerService) Start(actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watches[actorID]; ok {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := s.source.Watch(ctx, actorID)
	if err != nil {
		cancel()
		return err
	}

	w := &actorWatch{cancel: cancel, done: make(chan struct{})}
	s.watches[actorID] = w

	go s.observe(actorID, w, stream)
	log.Printf("[TrackerService] Started tracking actor %s", actorID)
	return nil
}

// observe consumes the fix stream until the source closes it
func (s *TrackerService) observe(actorID string, w *actorWatch, stream <-chan FixResult) {
	defer close(w.done)

	for res := range stream {
		w.mu.Lock()
		if res.Err != nil {
			// Recoverable locally: keep the previous fix, record the error
			w.lastErr = res.Err
			w.mu.Unlock()
			continue
		}

		// observedAt strictly increases per actor; stale fixes are discarded
		if w.latest != nil && !res.Fix.ObservedAt.After(w.latest.ObservedAt) {
			w.mu.Unlock()
			continue
		}

		fix := *res.Fix
		w.latest = &fix
		w.lastErr = nil
		w.fixCount++
		w.mu.Unlock()

		s.bus.Publish(events.TypeFixUpdated, FixUpdate{ActorID: actorID, Fix: fix})
	}
}

// Stop tears down the observation for an actor. Idempotent; once Stop
// returns, no further fix is delivered for the actor.
func (s *TrackerService) Stop(actorID string) {
	s.mu.Lock()
	w, ok := s.watches[actorID]
	if ok {
		delete(s.watches, actorID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	w.cancel()
	<-w.done
	log.Printf("[TrackerService] Stopped tracking actor %s", actorID)
}

// StopAll tears down every observation, for shutdown
func (s *TrackerService) StopAll() {
	s.mu.Lock()
	watches := s.watches
	s.watches = make(map[string]*actorWatch)
	s.mu.Unlock()

	for actorID, w := range watches {
		w.cancel()
		<-w.done
		log.Printf("[TrackerService] Stopped tracking actor %s", actorID)
	}
}

// Latest returns the actor's last known position and staleness. A tracked
// actor with no fix yet reports only its last error, if any.
func (s *TrackerService) Latest(actorID string) (models.TrackedPosition, error) {
	s.mu.Lock()
	w, ok := s.watches[actorID]
	s.mu.Unlock()

	if !ok {
		return models.TrackedPosition{}, ErrNotTracking
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	pos := models.TrackedPosition{
		ActorID:    actorID,
		Tracking:   true,
		UpdatedFix: w.fixCount,
	}
	if w.latest != nil {
		fix := *w.latest
		pos.Fix = &fix
		pos.Staleness = fix.Staleness(time.Now())
	}
	if w.lastErr != nil {
		pos.LastError = w.lastErr.Error()
	}
	return pos, nil
}

// ActiveCount returns the number of actors currently tracked
func (s *TrackerService) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}
