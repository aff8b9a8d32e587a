// Package geo provides the spherical-geometry primitives used by the
// route-planning domain: bearings, forward offsets, great-circle distances
// and WKT line-geometry parsing. All calculations assume a sphere of mean
// Earth radius, which is accurate enough at city scale.
package geo

import "math"

// EarthRadiusM is the mean Earth radius in meters.
const EarthRadiusM = 6371000.0

// Point is a geographic coordinate. Longitude comes before latitude
// everywhere in this service, matching the routing provider's wire format.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Bearing returns the initial great-circle bearing from p1 to p2 in
// radians, in the range (-pi, pi].
func Bearing(p1, p2 Point) float64 {
	lon1 := radians(p1.Lon)
	lat1 := radians(p1.Lat)
	lon2 := radians(p2.Lon)
	lat2 := radians(p2.Lat)

	dlon := lon2 - lon1
	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	return math.Atan2(y, x)
}

// Offset returns the point reached by traveling distanceM meters from p
// along the given initial bearing (radians).
func Offset(p Point, distanceM, bearingRad float64) Point {
	delta := distanceM / EarthRadiusM
	lat1 := radians(p.Lat)
	lon1 := radians(p.Lon)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(bearingRad))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearingRad)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	return Point{Lon: degrees(lon2), Lat: degrees(lat2)}
}

// HaversineM returns the great-circle distance between a and b in meters.
func HaversineM(a, b Point) float64 {
	lon1 := radians(a.Lon)
	lat1 := radians(a.Lat)
	lon2 := radians(b.Lon)
	lat2 := radians(b.Lat)

	dlon := lon2 - lon1
	dlat := lat2 - lat1
	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	return 2 * EarthRadiusM * math.Asin(math.Sqrt(h))
}

// Midpoint returns the coordinate-wise midpoint of a and b. Good enough for
// the short segments this service works with.
func Midpoint(a, b Point) Point {
	return Point{Lon: (a.Lon + b.Lon) / 2, Lat: (a.Lat + b.Lat) / 2}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
