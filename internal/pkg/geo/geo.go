package geo

import (
	"math"
	"time"
)

// DefaultMaxDistanceMeters is the check-in radius used when a job site
// does not override it.
const DefaultMaxDistanceMeters = 500.0

// Point is a latitude/longitude coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Fix is one sample from a positioning source. Immutable once captured.
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // meters
	Timestamp time.Time `json:"timestamp"`
	Altitude  *float64  `json:"altitude,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
}

// Point returns the coordinate portion of the fix.
func (f Fix) Point() Point {
	return Point{Latitude: f.Latitude, Longitude: f.Longitude}
}

// Distance returns the great-circle distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	const earthRadius = 6371000 // meters

	dLat := (p2.Latitude - p1.Latitude) * (math.Pi / 180.0)
	dLon := (p2.Longitude - p1.Longitude) * (math.Pi / 180.0)

	lat1Rad := p1.Latitude * (math.Pi / 180.0)
	lat2Rad := p2.Latitude * (math.Pi / 180.0)

	// Haversine
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Check is the result of validating a technician fix against a job site.
type Check struct {
	Valid       bool    `json:"is_valid"`
	Distance    float64 `json:"distance"`
	MaxDistance float64 `json:"max_distance"`
}

// ValidateWorkLocation reports whether the fix lies within maxDistance
// meters of the job site. The boundary is inclusive: a fix exactly
// maxDistance away is valid. A non-positive maxDistance falls back to
// DefaultMaxDistanceMeters.
func ValidateWorkLocation(site Point, fix Fix, maxDistance float64) Check {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistanceMeters
	}
	d := Distance(site, fix.Point())
	return Check{
		Valid:       d <= maxDistance,
		Distance:    d,
		MaxDistance: maxDistance,
	}
}

// Quality is an ordinal tier for fix accuracy.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// FixQuality maps an accuracy radius in meters to a quality tier.
// Boundaries are inclusive of the better tier: exactly 10m is excellent.
func FixQuality(accuracyMeters float64) Quality {
	switch {
	case accuracyMeters <= 10:
		return QualityExcellent
	case accuracyMeters <= 25:
		return QualityGood
	case accuracyMeters <= 50:
		return QualityFair
	default:
		return QualityPoor
	}
}
