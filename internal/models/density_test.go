package models

import "testing"

func TestIntensityForPopulation(t *testing.T) {
	cases := []struct {
		population int
		want       Intensity
	}{
		{0, IntensityLow},
		{75, IntensityLow},
		{76, IntensityMedium},
		{200, IntensityMedium},
		{201, IntensityHigh},
		{5000, IntensityHigh},
	}
	for _, c := range cases {
		if got := IntensityForPopulation(c.population); got != c.want {
			t.Errorf("population %d: got %s, want %s", c.population, got, c.want)
		}
	}
}
