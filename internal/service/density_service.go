package service

import (
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/spatial"
)

// DensityThresholds holds the proportion cutoffs reducing a sample set to one
// crowd level.
type DensityThresholds struct {
	CriticalHighShare float64 // share of high samples above which the level is Critical
	HighHighShare     float64 // share of high samples above which the level is High
	HighMediumShare   float64 // share of medium samples above which the level is High
	MediumMediumShare float64 // share of medium samples above which the level is Medium
}

// DefaultDensityThresholds returns the standard reduction cutoffs
func DefaultDensityThresholds() DensityThresholds {
	return DensityThresholds{
		CriticalHighShare: 0.25,
		HighHighShare:     0.15,
		HighMediumShare:   0.40,
		MediumMediumShare: 0.20,
	}
}

// DensityConfig tunes synthetic sample generation
type DensityConfig struct {
	MinSamples int
	MaxSamples int
	TickChance float64 // probability a sample mutates on each tick
	TickEvery  time.Duration
}

// DensityService maintains a set of synthetic crowd-density samples around a
// reference fix. Samples are regenerated on reference change and refreshed in
// place on a fixed cadence; intensity is always derived from population via
// the fixed thresholds.
//
// The center-bias (samples near the reference skew toward higher intensity)
// models a hotspot-at-center policy, not a physical measurement.
type DensityService struct {
	cfg        DensityConfig
	thresholds DensityThresholds
	bus        *events.Bus

	mu      sync.Mutex // serializes Refresh and Tick; no torn reads of samples
	rng     *rand.Rand
	ref     *models.Fix
	radius  float64
	samples []models.DensitySample

	updates atomic.Int64 // monotonic count of sample writes, for liveness

	tickStop chan struct{}
	tickDone chan struct{}
}

// NewDensityService creates an estimator with the given tuning
func NewDensityService(cfg DensityConfig, thresholds DensityThresholds, bus *events.Bus) *DensityService {
	return &DensityService{
		cfg:        cfg,
		thresholds: thresholds,
		bus:        bus,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Refresh regenerates the sample set within radiusMeters of the reference
// fix. The previous set is discarded, not merged. Sample count is randomized
// within the configured range to avoid a fixed, guessable grid.
func (s *DensityService) Refresh(ref models.Fix, radiusMeters float64) []models.DensitySample {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ref = &ref
	s.radius = radiusMeters

	count := s.cfg.MinSamples
	if spread := s.cfg.MaxSamples - s.cfg.MinSamples; spread > 0 {
		count += s.rng.Intn(spread + 1)
	}

	now := time.Now()
	samples := make([]models.DensitySample, 0, count)
	for i := 0; i < count; i++ {
		bearing := s.rng.Float64() * 360
		distance := s.rng.Float64() * radiusMeters
		lat, lng := spatial.DestinationPoint(ref.Lat, ref.Lng, bearing, distance)

		population := s.drawPopulation(distance / radiusMeters)
		samples = append(samples, models.DensitySample{
			ID:         uuid.NewString(),
			Lat:        lat,
			Lng:        lng,
			Intensity:  models.IntensityForPopulation(population),
			Population: population,
			ObservedAt: now,
		})
	}

	s.samples = samples
	s.updates.Add(int64(count))
	log.Printf("[DensityService] Refreshed %d samples within %.0fm of (%.4f, %.4f)",
		count, radiusMeters, ref.Lat, ref.Lng)

	snapshot := s.snapshotLocked()
	s.bus.Publish(events.TypeDensityUpdated, snapshot)
	return snapshot
}

// drawPopulation picks a population for a sample at the given normalized
// distance from the reference (0 = at center, 1 = at the radius edge).
// Center areas skew high, mid areas mixed, outer areas mostly low.
func (s *DensityService) drawPopulation(normDist float64) int {
	roll := s.rng.Float64()
	var intensity models.Intensity
	switch {
	case normDist < 0.3:
		if roll < 0.6 {
			intensity = models.IntensityHigh
		} else {
			intensity = models.IntensityMedium
		}
	case normDist < 0.7:
		if roll < 0.5 {
			intensity = models.IntensityMedium
		} else {
			intensity = models.IntensityLow
		}
	default:
		if roll < 0.7 {
			intensity = models.IntensityLow
		} else {
			intensity = models.IntensityMedium
		}
	}

	// Populations are drawn inside the band the thresholds imply, so stored
	// intensity is consistent with population by construction.
	switch intensity {
	case models.IntensityHigh:
		return models.HighPopulationThreshold + 1 + s.rng.Intn(300)
	case models.IntensityMedium:
		return models.MediumPopulationThreshold + 1 + s.rng.Intn(models.HighPopulationThreshold-models.MediumPopulationThreshold)
	default:
		return 10 + s.rng.Intn(models.MediumPopulationThreshold-9)
	}
}

// Ingest adds or replaces a single measured sample, keyed by ID. Intensity is
// recomputed from population, so an external feed cannot introduce an
// inconsistent classification. This is the seam a real sensor feed plugs
// into in place of the synthetic generator.
func (s *DensityService) Ingest(sample models.DensitySample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if sample.ObservedAt.IsZero() {
		sample.ObservedAt = time.Now()
	}
	sample.Intensity = models.IntensityForPopulation(sample.Population)

	replaced := false
	for i := range s.samples {
		if s.samples[i].ID == sample.ID {
			s.samples[i] = sample
			replaced = true
			break
		}
	}
	if !replaced {
		s.samples = append(s.samples, sample)
	}

	s.updates.Add(1)
	s.bus.Publish(events.TypeDensityUpdated, s.snapshotLocked())
}

// Tick probabilistically mutates a subset of existing samples in place,
// recomputing intensity from the updated population. Sample count never
// changes on a tick; this keeps the feed live but temporally coherent.
func (s *DensityService) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return
	}

	now := time.Now()
	mutated := 0
	for i := range s.samples {
		if s.rng.Float64() >= s.cfg.TickChance {
			continue
		}

		population := s.samples[i].Population + s.rng.Intn(121) - 60
		if population < 5 {
			population = 5
		}
		s.samples[i].Population = population
		s.samples[i].Intensity = models.IntensityForPopulation(population)
		s.samples[i].ObservedAt = now
		mutated++
	}

	if mutated > 0 {
		s.updates.Add(int64(mutated))
		s.bus.Publish(events.TypeDensityUpdated, s.snapshotLocked())
	}
}

// Samples returns a copy of the current sample set
func (s *DensityService) Samples() []models.DensitySample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *DensityService) snapshotLocked() []models.DensitySample {
	out := make([]models.DensitySample, len(s.samples))
	copy(out, s.samples)
	return out
}

// OverallLevel reduces a sample set to a single crowd level using the
// configured proportion thresholds.
func (s *DensityService) OverallLevel(samples []models.DensitySample) models.CrowdLevel {
	if len(samples) == 0 {
		return models.CrowdLevelLow
	}

	var high, medium int
	for _, sample := range samples {
		switch sample.Intensity {
		case models.IntensityHigh:
			high++
		case models.IntensityMedium:
			medium++
		}
	}

	total := float64(len(samples))
	highShare := float64(high) / total
	mediumShare := float64(medium) / total

	switch {
	case highShare > s.thresholds.CriticalHighShare:
		return models.CrowdLevelCritical
	case highShare > s.thresholds.HighHighShare || mediumShare > s.thresholds.HighMediumShare:
		return models.CrowdLevelHigh
	case mediumShare > s.thresholds.MediumMediumShare:
		return models.CrowdLevelMedium
	default:
		return models.CrowdLevelLow
	}
}

// CurrentLevel reduces the estimator's own sample set
func (s *DensityService) CurrentLevel() models.CrowdLevel {
	return s.OverallLevel(s.Samples())
}

// UpdateCount returns the monotonically increasing number of sample writes
func (s *DensityService) UpdateCount() int64 {
	return s.updates.Load()
}

// StartTicking runs the periodic refresh-in-place loop until Stop is called
func (s *DensityService) StartTicking() {
	s.mu.Lock()
	if s.tickStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.tickStop = stop
	s.tickDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.cfg.TickEvery)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop tears down the periodic task deterministically; no tick runs after it
// returns. Idempotent.
func (s *DensityService) Stop() {
	s.mu.Lock()
	stop := s.tickStop
	done := s.tickDone
	s.tickStop = nil
	s.tickDone = nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
