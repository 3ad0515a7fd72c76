package routing

import "math"

const earthRadiusKm = 6371.0

// EstimatePosition returns the estimated vehicle position at the given
// progress (0..100) along the route. With a usable polyline the position is
// interpolated along the polyline's cumulative-length parameterization, so the
// marker follows the road path; a degenerate route falls back to straight-line
// interpolation between the endpoints. Pure and idempotent.
func EstimatePosition(route Route, progressPercent float64) Coordinate {
	frac := math.Min(math.Max(progressPercent, 0), 100) / 100

	if len(route.Polyline) < 2 {
		return lerp(route.Origin.Coord, route.Destination.Coord, frac)
	}
	return interpolateAlong(route.Polyline, frac)
}

// interpolateAlong walks the polyline until the cumulative haversine length
// reaches frac of the total, then interpolates within the final segment.
func interpolateAlong(polyline []Coordinate, frac float64) Coordinate {
	if frac <= 0 {
		return polyline[0]
	}
	if frac >= 1 {
		return polyline[len(polyline)-1]
	}

	segments := make([]float64, len(polyline)-1)
	var total float64
	for i := 0; i < len(polyline)-1; i++ {
		segments[i] = haversineKm(polyline[i], polyline[i+1])
		total += segments[i]
	}
	if total == 0 {
		return polyline[0]
	}

	target := frac * total
	var walked float64
	for i, segLen := range segments {
		if walked+segLen >= target {
			if segLen == 0 {
				return polyline[i]
			}
			return lerp(polyline[i], polyline[i+1], (target-walked)/segLen)
		}
		walked += segLen
	}
	return polyline[len(polyline)-1]
}

func lerp(a, b Coordinate, t float64) Coordinate {
	return Coordinate{
		Lng: a.Lng + (b.Lng-a.Lng)*t,
		Lat: a.Lat + (b.Lat-a.Lat)*t,
	}
}

// haversineKm calculates the great-circle distance between two coordinates.
func haversineKm(a, b Coordinate) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
