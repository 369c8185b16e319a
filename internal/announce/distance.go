package announce

import "math"

// earthRadiusMiles matches the mile convention used for the proximity
// radius.
const earthRadiusMiles = 3959.0

// DistanceMiles returns the great-circle distance between two points,
// in miles, using the haversine formula.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLng1 := lng1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	radLng2 := lng2 * math.Pi / 180

	deltaLat := radLat2 - radLat1
	deltaLng := radLng2 - radLng1

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}
