// Package geo contains pure great-circle distance helpers used by match
// scoring. Inputs are decimal-degree coordinates; no range validation is
// performed, so out-of-range values yield a well-defined but meaningless
// distance (an upstream data-quality concern, not ours).
package geo

import "math"

// earthRadiusMiles is the mean Earth radius used by the ranking model.
const earthRadiusMiles = 3959.0

// Location is an immutable (latitude, longitude) pair in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMiles returns the haversine distance between a and b, rounded to
// the nearest whole mile to match the ranking granularity. Total over all
// real inputs; symmetric; DistanceMiles(a, a) == 0.
func DistanceMiles(a, b Location) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	rLat1 := degreesToRadians(a.Latitude)
	rLat2 := degreesToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusMiles * c)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
