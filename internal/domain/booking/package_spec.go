package booking

// PackageSpec describes the shipment contents. All fields are optional; a
// weight of zero means unspecified.
type PackageSpec struct {
	WeightKg    float64 `json:"weight_kg,omitempty"`
	LengthM     float64 `json:"length_m,omitempty"`
	WidthM      float64 `json:"width_m,omitempty"`
	HeightM     float64 `json:"height_m,omitempty"`
	Description string  `json:"description,omitempty"`
}
