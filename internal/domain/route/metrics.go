package route

// MaxRoadAngle returns the route's maximum incline in degrees, 0 when the
// provider sent no elevation summary.
func (r *Route) MaxRoadAngle() float64 {
	if r.AltitudesInfo == nil {
		return 0
	}
	return r.AltitudesInfo.MaxRoadAngle
}

// Metrics is the comparison summary exposed for a route.
type Metrics struct {
	RouteID     string  `json:"route_id,omitempty"`
	DistanceM   int     `json:"distance_m"`
	DurationS   int     `json:"duration_s"`
	MaxAngleDeg float64 `json:"max_angle_deg"`
}

// Metrics summarizes the route for base-vs-augmented comparison.
func (r *Route) Metrics() Metrics {
	return Metrics{
		RouteID:     r.ID,
		DistanceM:   r.TotalDistance,
		DurationS:   r.TotalDuration,
		MaxAngleDeg: r.MaxRoadAngle(),
	}
}
