package routing

import (
	"encoding/json"
	"fmt"
)

// Coordinate is a geographic point. It marshals as a [lng, lat] array, the
// order Mapbox uses for all geometry.
type Coordinate struct {
	Lng float64
	Lat float64
}

// MarshalJSON encodes the coordinate as [lng, lat].
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lng, c.Lat})
}

// UnmarshalJSON decodes a [lng, lat] array.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid coordinate: %w", err)
	}
	c.Lng, c.Lat = pair[0], pair[1]
	return nil
}

// Place is a geocoded location: the provider's resolved name and coordinate.
type Place struct {
	Name  string     `json:"name"`
	Coord Coordinate `json:"coordinates"`
}

// Route is the immutable result of a geocode+directions lookup.
type Route struct {
	Origin        Place        `json:"origin"`
	Destination   Place        `json:"destination"`
	DistanceKm    float64      `json:"distance_km"`
	DurationHours float64      `json:"duration_hours"`
	Polyline      []Coordinate `json:"polyline"`
}
