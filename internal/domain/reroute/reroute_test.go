package reroute

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/route"
)

// steepSelection climbs ~10 m over ~63 m around midpoint (37.62, 55.75),
// roughly a 9 degree incline in the provider's decimeter-like unit.
const steepSelection = "LINESTRING(37.6195 55.75 1000, 37.6205 55.75 1100)"

func respWithAngle(angleDeg float64, selections ...string) *route.Response {
	geoms := make([]route.Geometry, len(selections))
	for i, s := range selections {
		geoms[i] = route.Geometry{Selection: s}
	}
	return &route.Response{
		Status: route.StatusOK,
		Result: []route.Route{{
			TotalDistance: 1200,
			TotalDuration: 900,
			AltitudesInfo: &route.AltitudesInfo{MaxRoadAngle: angleDeg},
			Maneuvers:     []route.Maneuver{{OutcomingPath: &route.Path{Geometry: geoms}}},
		}},
	}
}

func stopsAround() []route.PointSpec {
	return route.Stops([]geo.Point{
		{Lon: 37.615, Lat: 55.748},
		{Lon: 37.625, Lat: 55.752},
	})
}

// hasViaNear reports whether the point list contains a via-role entry
// within radiusM of target.
func hasViaNear(points []route.PointSpec, target geo.Point, radiusM float64) bool {
	for _, p := range points {
		if p.Type == route.RoleVia && geo.HaversineM(p.Point(), target) <= radiusM {
			return true
		}
	}
	return false
}

func TestCompliantFirstCallSkipsSearch(t *testing.T) {
	calls := 0
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		calls++
		return respWithAngle(3.0, steepSelection), nil
	}

	result, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, DefaultOptions())
	require.NoError(t, err)
	require.True(t, result.Compliant())
	assert.Zero(t, result.Tries)
	assert.Empty(t, result.Vias)
	assert.Equal(t, 1, calls)
}

func TestSingleViaSearchSucceeds(t *testing.T) {
	worstMid := geo.Point{Lon: 37.62, Lat: 55.75}
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		if hasViaNear(points, worstMid, 300) {
			return respWithAngle(4.0, steepSelection), nil
		}
		return respWithAngle(9.0, steepSelection), nil
	}

	result, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, DefaultOptions())
	require.NoError(t, err)
	require.True(t, result.Compliant())
	assert.Greater(t, result.Tries, 0)
	require.Len(t, result.Vias, 1)

	// The accepted via must come from the bearing/radius grid around the
	// worst segment's midpoint.
	assert.LessOrEqual(t, geo.HaversineM(result.Vias[0], worstMid), 260.0)
	assert.InDelta(t, 4.0, result.Response.Result[0].MaxRoadAngle(), 1e-9)
}

func TestViaInsertedBetweenStops(t *testing.T) {
	var sawPoints []route.PointSpec
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		sawPoints = points
		return respWithAngle(9.0, steepSelection), nil
	}

	opts := DefaultOptions()
	opts.MaxTries = 1
	_, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, opts)
	require.NoError(t, err)

	require.Len(t, sawPoints, 3)
	assert.Equal(t, route.RoleStop, sawPoints[0].Type)
	assert.Equal(t, route.RoleVia, sawPoints[1].Type)
	assert.Equal(t, route.RoleStop, sawPoints[2].Type)
}

func TestExhaustsExactlyBudget(t *testing.T) {
	calls := 0
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		calls++
		return respWithAngle(9.0, steepSelection), nil
	}

	opts := DefaultOptions()
	result, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, opts)
	require.NoError(t, err)
	assert.False(t, result.Compliant())
	assert.Equal(t, opts.MaxTries, result.Tries)
	// The first mandatory call plus exactly the budgeted retries.
	assert.Equal(t, opts.MaxTries+1, calls)
}

func TestSmallBudgetRespected(t *testing.T) {
	calls := 0
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		calls++
		return respWithAngle(9.0, steepSelection), nil
	}

	opts := Options{MaxAngleDeg: 5.0, MaxTries: 5}
	result, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Tries)
	assert.Equal(t, 6, calls)
}

func TestPairedViasTriedAfterSingles(t *testing.T) {
	worstMid := geo.Point{Lon: 37.62, Lat: 55.75}
	viaCount := 0
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		vias := 0
		for _, p := range points {
			if p.Type == route.RoleVia {
				vias++
			}
		}
		// Only accept once two vias are present.
		if vias == 2 {
			viaCount = vias
			return respWithAngle(4.5, steepSelection), nil
		}
		return respWithAngle(9.0, steepSelection), nil
	}

	opts := Options{MaxAngleDeg: 5.0, MaxTries: 40}
	result, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, opts)
	require.NoError(t, err)
	require.True(t, result.Compliant())
	assert.Equal(t, 2, viaCount)
	require.Len(t, result.Vias, 2)
	// 20 single attempts precede the first pair.
	assert.Equal(t, 21, result.Tries)
	for _, v := range result.Vias {
		assert.LessOrEqual(t, geo.HaversineM(v, worstMid), 260.0)
	}
}

func TestFirstCallErrorPropagates(t *testing.T) {
	boom := errors.New("routing down")
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		return nil, boom
	}

	_, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, DefaultOptions())
	assert.ErrorIs(t, err, boom)
}

func TestSearchContinuesPastCallFailures(t *testing.T) {
	boom := errors.New("transient")
	calls := 0
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		calls++
		if calls == 1 {
			return respWithAngle(9.0, steepSelection), nil
		}
		if calls <= 3 {
			return nil, boom
		}
		return respWithAngle(4.0, steepSelection), nil
	}

	result, err := WithSlopeLimit(context.Background(), call, stopsAround(), nil, DefaultOptions())
	require.NoError(t, err)
	require.True(t, result.Compliant())
	assert.Equal(t, 3, result.Tries)
	assert.ErrorIs(t, result.LastErr, boom)
}

func TestFallsBackToStopsWithoutGeometry(t *testing.T) {
	// Non-compliant response carrying no elevation geometry at all: the
	// search perturbs around the overall start-end leg instead.
	calls := 0
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		calls++
		if calls == 1 {
			return &route.Response{
				Status: route.StatusOK,
				Result: []route.Route{{AltitudesInfo: &route.AltitudesInfo{MaxRoadAngle: 9.0}}},
			}, nil
		}
		return respWithAngle(4.0), nil
	}

	stops := stopsAround()
	result, err := WithSlopeLimit(context.Background(), call, stops, nil, DefaultOptions())
	require.NoError(t, err)
	require.True(t, result.Compliant())
	require.Len(t, result.Vias, 1)

	legMid := geo.Midpoint(stops[0].Point(), stops[1].Point())
	assert.LessOrEqual(t, geo.HaversineM(result.Vias[0], legMid), 260.0)
}

func TestTooFewPoints(t *testing.T) {
	call := func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error) {
		return respWithAngle(3.0), nil
	}
	_, err := WithSlopeLimit(context.Background(), call, stopsAround()[:1], nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrTooFewPoints)
}
