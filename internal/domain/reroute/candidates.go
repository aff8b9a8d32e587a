package reroute

import (
	"math"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
)

// detourRadiiM are the radii at which detour candidates are generated
// around the worst segment's midpoint.
var detourRadiiM = []float64{80, 120, 160, 200, 250}

// detourCandidates synthesizes detour points around the midpoint of the
// segment a-b: for each radius, one point perpendicular to the segment on
// either side and one at each 45-degree diagonal. The fixed grid keeps the
// number of follow-up routing calls predictable; this is a heuristic, not
// a detour optimizer.
func detourCandidates(a, b geo.Point) []geo.Point {
	mid := geo.Midpoint(a, b)
	brg := geo.Bearing(a, b)
	bearings := []float64{
		brg + math.Pi/2,
		brg - math.Pi/2,
		brg + math.Pi/4,
		brg - math.Pi/4,
	}

	vias := make([]geo.Point, 0, len(detourRadiiM)*len(bearings))
	for _, r := range detourRadiiM {
		for _, bearing := range bearings {
			vias = append(vias, geo.Offset(mid, r, bearing))
		}
	}
	return vias
}
