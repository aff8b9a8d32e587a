package route

import (
	"math"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
)

// Projection locates a candidate point relative to a polyline: ProgressM is
// the arc-length position of the nearest polyline point, LateralM the
// perpendicular distance to it.
type Projection struct {
	ProgressM float64
	LateralM  float64
}

// Valid reports whether the projection matched a polyline segment. A
// polyline with fewer than two points has no segments and produces an
// invalid projection.
func (p Projection) Valid() bool {
	return !math.IsInf(p.LateralM, 1)
}

// Project finds the nearest point on the polyline to c. arc must be the
// polyline's ArcLengths table. This is a linear scan over the segments;
// route polylines are short enough that no spatial index is warranted.
func Project(c geo.Point, poly []geo.Point, arc []float64) Projection {
	best := Projection{LateralM: math.Inf(1)}
	for i := 0; i+1 < len(poly); i++ {
		proj, t := projectOnSegment(c, poly[i], poly[i+1])
		lateral := geo.HaversineM(c, proj)
		if lateral < best.LateralM {
			best = Projection{
				ProgressM: arc[i] + t*(arc[i+1]-arc[i]),
				LateralM:  lateral,
			}
		}
	}
	return best
}

// projectOnSegment projects p onto the segment a-b using a local
// equirectangular approximation, accurate at city-scale distances. The
// returned parameter t is clamped to [0, 1], so points beyond an endpoint
// snap to that endpoint.
func projectOnSegment(p, a, b geo.Point) (geo.Point, float64) {
	lonP := radians(p.Lon)
	latP := radians(p.Lat)
	lonA := radians(a.Lon)
	latA := radians(a.Lat)
	lonB := radians(b.Lon)
	latB := radians(b.Lat)

	k := math.Cos((latA + latB) / 2)
	xP := (lonP - lonA) * k * geo.EarthRadiusM
	yP := (latP - latA) * geo.EarthRadiusM
	xB := (lonB - lonA) * k * geo.EarthRadiusM
	yB := (latB - latA) * geo.EarthRadiusM

	denom := xB*xB + yB*yB
	if denom == 0 {
		denom = 1e-9
	}
	t := (xP*xB + yP*yB) / denom
	t = math.Max(0, math.Min(1, t))

	proj := geo.Point{
		Lon: degrees(t*xB/(k*geo.EarthRadiusM) + lonA),
		Lat: degrees(t*yB/geo.EarthRadiusM + latA),
	}
	return proj, t
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
