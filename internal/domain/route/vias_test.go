package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
)

// northSouthLine builds a straight polyline along a meridian with the
// given total length in degrees of latitude.
func northSouthLine() []geo.Point {
	return []geo.Point{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 0.1}} // ~11.1 km
}

func TestSelectViasAlongFiltersByLateralDistance(t *testing.T) {
	poly := northSouthLine()
	candidates := []geo.Point{
		{Lon: 0.0005, Lat: 0.05}, // ~55 m aside, kept
		{Lon: 0.01, Lat: 0.05},   // ~1.1 km aside, dropped
	}

	vias := SelectViasAlong(poly, candidates, DefaultViaOptions())
	require.Len(t, vias, 1)
	assert.Equal(t, candidates[0], vias[0])
}

func TestSelectViasAlongOrdersByProgress(t *testing.T) {
	poly := northSouthLine()
	candidates := []geo.Point{
		{Lon: 0, Lat: 0.08},
		{Lon: 0, Lat: 0.02},
		{Lon: 0, Lat: 0.05},
	}

	vias := SelectViasAlong(poly, candidates, DefaultViaOptions())
	require.Len(t, vias, 3)
	assert.Equal(t, 0.02, vias[0].Lat)
	assert.Equal(t, 0.05, vias[1].Lat)
	assert.Equal(t, 0.08, vias[2].Lat)
}

func TestSelectViasAlongSpacingInvariant(t *testing.T) {
	poly := northSouthLine()
	// Candidates every ~111 m along the line; far denser than the step.
	var candidates []geo.Point
	for lat := 0.001; lat < 0.1; lat += 0.001 {
		candidates = append(candidates, geo.Point{Lon: 0, Lat: lat})
	}

	opts := DefaultViaOptions()
	vias := SelectViasAlong(poly, candidates, opts)
	require.NotEmpty(t, vias)

	arc := ArcLengths(poly)
	var lastProgress float64
	for i, v := range vias {
		proj := Project(v, poly, arc)
		require.True(t, proj.Valid())
		assert.LessOrEqual(t, proj.LateralM, opts.MaxLateralM)
		if i > 0 {
			assert.GreaterOrEqual(t, proj.ProgressM-lastProgress, opts.MinStepM)
		}
		lastProgress = proj.ProgressM
	}
}

func TestSelectViasAlongCapsCount(t *testing.T) {
	poly := northSouthLine()
	var candidates []geo.Point
	for lat := 0.005; lat < 0.1; lat += 0.005 {
		candidates = append(candidates, geo.Point{Lon: 0, Lat: lat})
	}

	vias := SelectViasAlong(poly, candidates, DefaultViaOptions())
	assert.Len(t, vias, DefaultViaOptions().MaxVias)
}

func TestSelectViasAlongDeterministic(t *testing.T) {
	poly := northSouthLine()
	candidates := []geo.Point{
		{Lon: 0.0002, Lat: 0.07},
		{Lon: 0.0001, Lat: 0.01},
		{Lon: 0, Lat: 0.04},
	}

	first := SelectViasAlong(poly, candidates, DefaultViaOptions())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SelectViasAlong(poly, candidates, DefaultViaOptions()))
	}
}

func TestSelectViasAlongDegeneratePolyline(t *testing.T) {
	assert.Nil(t, SelectViasAlong(nil, []geo.Point{{Lon: 0, Lat: 0}}, DefaultViaOptions()))
	assert.Nil(t, SelectViasAlong([]geo.Point{{Lon: 0, Lat: 0}}, []geo.Point{{Lon: 0, Lat: 0}}, DefaultViaOptions()))
}

func TestSelectViasFromRouteGeometry(t *testing.T) {
	rt := routeWithGeometry("LINESTRING(0 0, 0 0.1)")
	vias := rt.SelectVias([]geo.Point{{Lon: 0, Lat: 0.05}}, DefaultViaOptions())
	require.Len(t, vias, 1)

	// A route with no geometry cannot place vias safely.
	assert.Nil(t, (&Route{}).SelectVias([]geo.Point{{Lon: 0, Lat: 0.05}}, DefaultViaOptions()))
}
