package booking

// RouteSpec is a value object snapshotting the resolved route at booking
// creation time. Later changes to the routing provider's index never alter a
// placed booking.
type RouteSpec struct {
	OriginName      string       `json:"origin_name"`
	OriginLat       float64      `json:"origin_lat"`
	OriginLng       float64      `json:"origin_lng"`
	DestinationName string       `json:"destination_name"`
	DestinationLat  float64      `json:"destination_lat"`
	DestinationLng  float64      `json:"destination_lng"`
	DistanceKm      float64      `json:"distance_km"`
	DurationHours   float64      `json:"duration_hours"`
	Polyline        [][2]float64 `json:"polyline,omitempty"` // [lng, lat] pairs along the road path
}
