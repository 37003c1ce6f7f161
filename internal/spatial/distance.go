package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Earth's mean radius in meters
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// WithinRadius reports whether a point lies within radiusMeters of a reference point
func WithinRadius(refLat, refLng, lat, lng, radiusMeters float64) bool {
	return HaversineDistance(refLat, refLng, lat, lng) <= radiusMeters
}

// DestinationPoint calculates the point reached from a start point following a
// bearing for a distance. bearing: degrees (0-360), distance: meters
func DestinationPoint(lat, lng, bearing, distance float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lng)
	bearingRad := bearing * math.Pi / 180
	angularDistance := distance / EarthRadiusMeters

	latRad := p.Lat.Radians()
	lngRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
		math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearingRad))

	lng2 := lngRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDistance)*math.Cos(latRad),
		math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(lat2))

	return lat2 * 180 / math.Pi, lng2 * 180 / math.Pi
}
