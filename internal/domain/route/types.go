// Package route holds the routing-provider response model and the
// route-geometry algorithms built on top of it: polyline stitching,
// point projection and via-point selection.
package route

import (
	"github.com/stepfree-maps/service-routing/internal/domain/geo"
)

// Role tags an outgoing request point. Stops are mandatory waypoints; via
// and pref points are hints the provider may drop when infeasible.
type Role string

const (
	RoleStop Role = "stop"
	RoleVia  Role = "via"
	RolePref Role = "pref"
)

// PointSpec is one entry of the ordered point list sent to the routing
// provider. Longitude is serialized before latitude.
type PointSpec struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Type Role    `json:"type"`
}

// Spec builds a PointSpec from a coordinate and role.
func Spec(p geo.Point, role Role) PointSpec {
	return PointSpec{Lon: p.Lon, Lat: p.Lat, Type: role}
}

// Stops converts plain coordinates into mandatory stop entries.
func Stops(pts []geo.Point) []PointSpec {
	specs := make([]PointSpec, len(pts))
	for i, p := range pts {
		specs[i] = Spec(p, RoleStop)
	}
	return specs
}

// Point returns the coordinate of the entry.
func (s PointSpec) Point() geo.Point {
	return geo.Point{Lon: s.Lon, Lat: s.Lat}
}

// StatusOK is the provider's success status.
const StatusOK = "OK"

// Response is the routing provider's v7 response envelope.
type Response struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Result  []Route `json:"result,omitempty"`
}

// Route is a single route alternative returned by the provider.
type Route struct {
	ID            string         `json:"id,omitempty"`
	Algorithm     string         `json:"algorithm,omitempty"`
	TotalDistance int            `json:"total_distance,omitempty"`
	TotalDuration int            `json:"total_duration,omitempty"`
	AltitudesInfo *AltitudesInfo `json:"altitudes_info,omitempty"`
	Maneuvers     []Maneuver     `json:"maneuvers,omitempty"`
	Waypoints     []Waypoint     `json:"waypoints,omitempty"`
}

// AltitudesInfo carries the provider's elevation summary for a route.
type AltitudesInfo struct {
	MaxRoadAngle float64 `json:"max_road_angle,omitempty"`
}

// Maneuver is one turn instruction with the path leading out of it.
type Maneuver struct {
	Comment       string `json:"comment,omitempty"`
	OutcomingPath *Path  `json:"outcoming_path,omitempty"`
}

// Path is the geometry of a maneuver's outgoing leg, split into fragments.
type Path struct {
	Distance int        `json:"distance,omitempty"`
	Duration int        `json:"duration,omitempty"`
	Geometry []Geometry `json:"geometry,omitempty"`
}

// Geometry is one line-geometry fragment. Selection holds the WKT text.
type Geometry struct {
	Selection string `json:"selection,omitempty"`
	Style     string `json:"style,omitempty"`
	ZLevel    int    `json:"zlevel,omitempty"`
}

// Waypoint is a snapped request point echoed back by the provider.
type Waypoint struct {
	OriginalPoint  *geo.Point `json:"original_point,omitempty"`
	ProjectedPoint *geo.Point `json:"projected_point,omitempty"`
}
