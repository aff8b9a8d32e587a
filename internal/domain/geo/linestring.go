package geo

import (
	"math"
	"strconv"
	"strings"
)

// elevationDivisor converts the optional third LINESTRING field to meters.
// The provider encodes altitude in a decimeter-like unit; the true unit is
// unconfirmed, so absolute slope values should be treated as estimates.
const elevationDivisor = 10.0

// minSlopeSegmentM is the shortest segment considered for slope analysis.
// Shorter pairs are skipped to avoid division instability.
const minSlopeSegmentM = 1e-3

// Vertex is a parsed line-geometry coordinate with an optional elevation.
type Vertex struct {
	Point
	Elev    float64
	HasElev bool
}

// ParseLineString parses a WKT LINESTRING into ordered vertices. The
// keyword is matched case-insensitively; anything else yields nil. Tokens
// are "lon lat [z]"; tokens with fewer than two fields, or fields that do
// not parse as numbers, are skipped.
func ParseLineString(s string) []Vertex {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToUpper(s), "LINESTRING") {
		return nil
	}
	open := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if open < 0 || end < open {
		return nil
	}

	var vs []Vertex
	for _, token := range strings.Split(s[open+1:end], ",") {
		fields := strings.Fields(token)
		if len(fields) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		v := Vertex{Point: Point{Lon: lon, Lat: lat}}
		if len(fields) >= 3 {
			if z, err := strconv.ParseFloat(fields[2], 64); err == nil {
				v.Elev = z
				v.HasElev = true
			}
		}
		vs = append(vs, v)
	}
	return vs
}

// PointsOf strips elevation data, returning the plain coordinates.
func PointsOf(vs []Vertex) []Point {
	pts := make([]Point, len(vs))
	for i, v := range vs {
		pts[i] = v.Point
	}
	return pts
}

// MaxSlopeSegment scans consecutive vertex pairs carrying elevation data
// and returns the pair with the steepest incline, in degrees. ok is false
// when no pair produced a positive slope (no elevation data, or flat).
func MaxSlopeSegment(vs []Vertex) (a, b Point, deg float64, ok bool) {
	for i := 0; i+1 < len(vs); i++ {
		v1, v2 := vs[i], vs[i+1]
		if !v1.HasElev || !v2.HasElev {
			continue
		}
		dist := HaversineM(v1.Point, v2.Point)
		if dist < minSlopeSegmentM {
			continue
		}
		dzM := (v2.Elev - v1.Elev) / elevationDivisor
		slope := math.Abs(degrees(math.Atan2(dzM, dist)))
		if slope > deg {
			deg = slope
			a, b = v1.Point, v2.Point
			ok = true
		}
	}
	return a, b, deg, ok
}
