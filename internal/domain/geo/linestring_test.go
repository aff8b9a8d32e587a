package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineString(t *testing.T) {
	vs := ParseLineString("LINESTRING(37.61 55.75, 37.62 55.76)")
	require.Len(t, vs, 2)
	assert.Equal(t, Point{Lon: 37.61, Lat: 55.75}, vs[0].Point)
	assert.Equal(t, Point{Lon: 37.62, Lat: 55.76}, vs[1].Point)
	assert.False(t, vs[0].HasElev)
}

func TestParseLineStringWithElevation(t *testing.T) {
	vs := ParseLineString("LINESTRING(37.61 55.75 1450, 37.62 55.76 1530)")
	require.Len(t, vs, 2)
	require.True(t, vs[0].HasElev)
	assert.Equal(t, 1450.0, vs[0].Elev)
	assert.Equal(t, 1530.0, vs[1].Elev)
}

func TestParseLineStringCaseInsensitive(t *testing.T) {
	assert.Len(t, ParseLineString("  linestring(1 2, 3 4)"), 2)
	assert.Len(t, ParseLineString("LineString(1 2, 3 4)"), 2)
}

func TestParseLineStringRejectsOtherGeometry(t *testing.T) {
	assert.Nil(t, ParseLineString("POINT(37.61 55.75)"))
	assert.Nil(t, ParseLineString(""))
	assert.Nil(t, ParseLineString("LINESTRING"))
}

func TestParseLineStringSkipsMalformedTokens(t *testing.T) {
	vs := ParseLineString("LINESTRING(37.61 55.75, 37.99, not numbers, 37.62 55.76)")
	require.Len(t, vs, 2)
	assert.Equal(t, 37.62, vs[1].Lon)
}

func TestMaxSlopeSegment(t *testing.T) {
	// Roughly 70 m per step; the middle pair climbs 14 "meters" (140 in
	// the raw decimeter-like unit), the others stay flat.
	vs := ParseLineString("LINESTRING(37.610 55.750 100, 37.611 55.750 100, 37.612 55.750 240, 37.613 55.750 240)")
	a, b, deg, ok := MaxSlopeSegment(vs)

	require.True(t, ok)
	assert.Equal(t, 37.611, a.Lon)
	assert.Equal(t, 37.612, b.Lon)
	assert.Greater(t, deg, 5.0)
	assert.Less(t, deg, 45.0)
}

func TestMaxSlopeSegmentNoElevation(t *testing.T) {
	vs := ParseLineString("LINESTRING(37.61 55.75, 37.62 55.76)")
	_, _, _, ok := MaxSlopeSegment(vs)
	assert.False(t, ok)
}

func TestMaxSlopeSegmentSkipsZeroLengthPairs(t *testing.T) {
	vs := []Vertex{
		{Point: Point{Lon: 37.61, Lat: 55.75}, Elev: 0, HasElev: true},
		{Point: Point{Lon: 37.61, Lat: 55.75}, Elev: 900, HasElev: true},
	}
	_, _, _, ok := MaxSlopeSegment(vs)
	assert.False(t, ok)
}
