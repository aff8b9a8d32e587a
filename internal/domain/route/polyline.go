package route

import (
	"math"
	"strconv"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
)

// bboxPadM widens an extracted bounding box so candidate searches pick up
// objects adjacent to the route.
const bboxPadM = 50.0

// Polyline stitches the route's per-maneuver geometry fragments into one
// continuous coordinate sequence. Fragments whose first point equals the
// last accumulated point are appended without duplicating that shared
// endpoint. A route without parseable geometry yields nil; callers fall
// back to the original stop coordinates in that case.
func (r *Route) Polyline() []geo.Point {
	var line []geo.Point
	for _, man := range r.Maneuvers {
		if man.OutcomingPath == nil {
			continue
		}
		for _, g := range man.OutcomingPath.Geometry {
			if g.Selection == "" {
				continue
			}
			pts := geo.PointsOf(geo.ParseLineString(g.Selection))
			if len(pts) == 0 {
				continue
			}
			if len(line) > 0 && pts[0] == line[len(line)-1] {
				line = append(line, pts[1:]...)
			} else {
				line = append(line, pts...)
			}
		}
	}
	return line
}

// ArcLengths returns the cumulative great-circle distance from the first
// polyline point to each point, in meters. Element 0 is always 0 and the
// sequence is monotonically non-decreasing.
func ArcLengths(poly []geo.Point) []float64 {
	if len(poly) == 0 {
		return nil
	}
	lengths := make([]float64, len(poly))
	for i := 1; i < len(poly); i++ {
		lengths[i] = lengths[i-1] + geo.HaversineM(poly[i-1], poly[i])
	}
	return lengths
}

// BBox is a geographic bounding box.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// PlacesParam renders the box as "lon1,lat1,lon2,lat2" with the upper-left
// corner first, the form the places search expects.
func (b BBox) PlacesParam() string {
	return formatCoord(b.MinLon) + "," + formatCoord(b.MaxLat) + "," +
		formatCoord(b.MaxLon) + "," + formatCoord(b.MinLat)
}

// BBox computes the bounding box of the route's geometry, padded by 50 m.
// When no geometry parses it falls back to the provider's waypoints; ok is
// false when neither yields a single coordinate.
func (r *Route) BBox() (BBox, bool) {
	minLon, minLat := math.Inf(1), math.Inf(1)
	maxLon, maxLat := math.Inf(-1), math.Inf(-1)

	grow := func(lon, lat float64) {
		minLon = math.Min(minLon, lon)
		maxLon = math.Max(maxLon, lon)
		minLat = math.Min(minLat, lat)
		maxLat = math.Max(maxLat, lat)
	}

	for _, p := range r.Polyline() {
		grow(p.Lon, p.Lat)
	}
	if math.IsInf(minLon, 1) {
		for _, w := range r.Waypoints {
			p := w.ProjectedPoint
			if p == nil {
				p = w.OriginalPoint
			}
			if p != nil {
				grow(p.Lon, p.Lat)
			}
		}
	}
	if math.IsInf(minLon, 1) {
		return BBox{}, false
	}

	pad := bboxPadM / 111320.0 // rough meters-to-degrees at city latitudes
	return BBox{
		MinLat: minLat - pad,
		MinLon: minLon - pad,
		MaxLat: maxLat + pad,
		MaxLon: maxLon + pad,
	}, true
}

// BBoxAround builds a padded box covering a set of plain coordinates, used
// when a route carries no usable geometry at all.
func BBoxAround(pts []geo.Point) (BBox, bool) {
	if len(pts) == 0 {
		return BBox{}, false
	}
	b := BBox{MinLat: math.Inf(1), MinLon: math.Inf(1), MaxLat: math.Inf(-1), MaxLon: math.Inf(-1)}
	for _, p := range pts {
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
	}
	pad := bboxPadM / 111320.0
	b.MinLat -= pad
	b.MinLon -= pad
	b.MaxLat += pad
	b.MaxLon += pad
	return b, true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
