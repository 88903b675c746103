// Package geo provides great-circle distance math for proximity queries.
package geo

import (
	"math"

	"capsuledb/pkg/models"
)

// earthRadiusKM is the mean Earth radius used by the haversine formula.
const earthRadiusKM = 6371.0

// DistanceKM returns the great-circle distance in kilometers between two
// locations using the haversine formula. It is pure and total over valid
// coordinate pairs; callers are responsible for supplying finite values.
func DistanceKM(a, b models.GeoLocation) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(h))

	return earthRadiusKM * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
