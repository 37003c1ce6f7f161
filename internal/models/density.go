package models

import "time"

// Intensity classifies a single density sample
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Population thresholds binding intensity to population. These are exact and
// stable: intensity must always be derivable from population through them.
const (
	HighPopulationThreshold   = 200
	MediumPopulationThreshold = 75
)

// IntensityForPopulation derives the intensity classification for a population
func IntensityForPopulation(population int) Intensity {
	switch {
	case population > HighPopulationThreshold:
		return IntensityHigh
	case population > MediumPopulationThreshold:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

// DensitySample is one synthetic or measured crowd-density point
type DensitySample struct {
	ID         string    `json:"id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Intensity  Intensity `json:"intensity"`
	Population int       `json:"population"`
	ObservedAt time.Time `json:"observedAt"`
}

// CrowdLevel is the reduction of a sample set to a single classification
type CrowdLevel string

const (
	CrowdLevelLow      CrowdLevel = "Low"
	CrowdLevelMedium   CrowdLevel = "Medium"
	CrowdLevelHigh     CrowdLevel = "High"
	CrowdLevelCritical CrowdLevel = "Critical"
)
