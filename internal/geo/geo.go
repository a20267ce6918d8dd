// Package geo provides great-circle distance math for candidate filtering.
package geo

import "math"

const (
	earthRadiusMeters = 6371000.0

	// metersPerDegreeLat is the approximate length of one degree of latitude.
	metersPerDegreeLat = 111320.0
)

// DistanceMeters returns the Haversine distance between two points in meters.
// It is symmetric and returns 0 for identical points. NaN coordinates yield
// NaN, which compares false against any radius.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Box is a coarse latitude/longitude rectangle used as a SQL pre-filter
// before exact Haversine refinement.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundingBox returns a box that fully contains the circle of radiusMeters
// around the given point. Near the poles the longitude span degenerates, so
// it is clamped to the full range.
func BoundingBox(lat, lng, radiusMeters float64) Box {
	latDelta := radiusMeters / metersPerDegreeLat

	cosLat := math.Cos(lat * math.Pi / 180)

	lngDelta := 180.0
	if cosLat > 1e-9 {
		lngDelta = radiusMeters / (metersPerDegreeLat * cosLat)
	}

	return Box{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}
