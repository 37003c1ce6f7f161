package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// Ujjain ghat area to a point ~1km east, checked against an external calculator
	d := HaversineDistance(23.1815, 75.7804, 23.1815, 75.7902)
	if d < 950 || d > 1050 {
		t.Fatalf("expected roughly 1000m, got %.1f", d)
	}

	if d2 := HaversineDistance(23.1815, 75.7902, 23.1815, 75.7804); math.Abs(d-d2) > 0.001 {
		t.Fatalf("distance not symmetric: %.4f vs %.4f", d, d2)
	}

	if z := HaversineDistance(23.1815, 75.7804, 23.1815, 75.7804); z != 0 {
		t.Fatalf("distance to self should be 0, got %.6f", z)
	}
}

func TestDestinationPointRoundTrip(t *testing.T) {
	for _, bearing := range []float64{0, 45, 90, 180, 270, 359} {
		lat, lng := DestinationPoint(23.1815, 75.7804, bearing, 500)
		d := HaversineDistance(23.1815, 75.7804, lat, lng)
		if math.Abs(d-500) > 1 {
			t.Errorf("bearing %.0f: expected 500m, got %.2fm", bearing, d)
		}
	}
}

func TestWithinRadius(t *testing.T) {
	lat, lng := DestinationPoint(23.1815, 75.7804, 90, 800)
	if !WithinRadius(23.1815, 75.7804, lat, lng, 1000) {
		t.Fatal("point at 800m should be within 1000m radius")
	}
	if WithinRadius(23.1815, 75.7804, lat, lng, 500) {
		t.Fatal("point at 800m should not be within 500m radius")
	}
}
