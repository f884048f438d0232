package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// HaversineMeters returns the great-circle distance between a and b in meters.
func HaversineMeters(a, b Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Lat))*math.Cos(degreesToRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// DistanceMeters is HaversineMeters for optional points. A nil point yields a nil distance.
func DistanceMeters(a, b *Point) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := HaversineMeters(*a, *b)
	return &d
}

// MetersToKm converts meters to kilometers rounded to two decimals.
func MetersToKm(meters float64) float64 {
	return math.Round(meters/1000*100) / 100
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
