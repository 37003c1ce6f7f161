package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/spatial"
)

// SimulatedFixSource emits a random walk around a base point, standing in for
// a real telemetry feed. The tracker is source-agnostic, so a real feed can
// replace this without touching the other layers.
type SimulatedFixSource struct {
	BaseLat  float64
	BaseLng  float64
	Interval time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedFixSource seeds the walk at the given base point
func NewSimulatedFixSource(baseLat, baseLng float64, interval time.Duration) *SimulatedFixSource {
	return &SimulatedFixSource{
		BaseLat:  baseLat,
		BaseLng:  baseLng,
		Interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Watch emits fixes on the configured interval until ctx is cancelled, then
// closes the stream.
func (s *SimulatedFixSource) Watch(ctx context.Context, actorID string) (<-chan FixResult, error) {
	out := make(chan FixResult)

	go func() {
		defer close(out)

		lat, lng := s.BaseLat, s.BaseLng
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				bearing := s.rng.Float64() * 360
				step := s.rng.Float64() * 15 // meters per interval, walking pace
				accuracy := 5 + s.rng.Float64()*25
				s.mu.Unlock()

				lat, lng = spatial.DestinationPoint(lat, lng, bearing, step)
				fix := models.Fix{
					Lat:            lat,
					Lng:            lng,
					AccuracyMeters: accuracy,
					ObservedAt:     time.Now(),
				}

				select {
				case out <- FixResult{Fix: &fix}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
