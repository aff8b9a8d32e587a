// Package reroute implements the slope-constrained rerouting search: when
// a route exceeds the allowed incline, synthetic via points are inserted
// around the steepest segment and the routing provider is re-queried until
// a compliant route is found or the try budget is spent.
package reroute

import (
	"context"
	"errors"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/route"
)

// RouteFunc issues one routing call. Implementations must report a
// distinguishable error for transport failures and non-OK statuses; the
// search treats any error as "no usable route this attempt".
type RouteFunc func(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error)

// Options bound the search.
type Options struct {
	// MaxAngleDeg is the largest acceptable max_road_angle, in degrees.
	MaxAngleDeg float64
	// MaxTries caps the number of follow-up routing calls.
	MaxTries int
}

// DefaultOptions returns the service defaults.
func DefaultOptions() Options {
	return Options{MaxAngleDeg: 5.0, MaxTries: 24}
}

// Result is the outcome of a slope-constrained search. A nil Response with
// a spent budget means no compliant route exists within the search space;
// that is a legitimate outcome, not an error.
type Result struct {
	// Response is the first compliant routing response, nil when the
	// budget was exhausted.
	Response *route.Response
	// Tries is the number of follow-up routing calls issued. Zero means
	// the original route was already compliant.
	Tries int
	// Vias are the inserted detour points of the accepted route.
	Vias []geo.Point
	// LastErr is the most recent routing-call failure seen during the
	// search, kept for diagnostics. It does not abort the search.
	LastErr error
}

// Compliant reports whether a route within the slope limit was found.
func (r *Result) Compliant() bool {
	return r.Response != nil
}

// ErrTooFewPoints is returned when fewer than two points are supplied.
var ErrTooFewPoints = errors.New("reroute: at least two points required")

// WithSlopeLimit plans a route whose maximum incline stays within
// opts.MaxAngleDeg. The original points are routed first; if that route
// already complies the search ends with zero tries. Otherwise detour
// candidates are generated around the steepest segment and tried as single
// vias, then as bounded pairs, sharing one try budget. An error is
// returned only when the mandatory first call fails; later call failures
// are recorded in Result.LastErr and the search continues.
func WithSlopeLimit(ctx context.Context, call RouteFunc, points []route.PointSpec, extra map[string]any, opts Options) (*Result, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	resp, err := call(ctx, points, extra)
	if err != nil {
		return nil, err
	}
	if compliant(resp, opts.MaxAngleDeg) {
		return &Result{Response: resp, Tries: 0}, nil
	}

	var base *route.Route
	if len(resp.Result) > 0 {
		base = &resp.Result[0]
	}
	segA, segB, ok := worstSegment(base)
	if !ok {
		// No elevation-bearing geometry; perturb around the overall leg.
		segA = points[0].Point()
		segB = points[len(points)-1].Point()
	}
	candidates := detourCandidates(segA, segB)

	result := &Result{}

	// Single-via insertion, in candidate generation order.
	for _, via := range candidates {
		if result.Tries >= opts.MaxTries {
			return result, nil
		}
		result.Tries++
		pts := insertBeforeLast(points, route.Spec(via, route.RoleVia))
		d, err := call(ctx, pts, extra)
		if err != nil {
			result.LastErr = err
			continue
		}
		if compliant(d, opts.MaxAngleDeg) {
			result.Response = d
			result.Vias = []geo.Point{via}
			return result, nil
		}
	}

	// Paired vias over a bounded combination of the leading candidates.
	for i := 0; i < len(candidates) && i < 6; i++ {
		for j := i + 1; j < len(candidates) && j < 10; j++ {
			if result.Tries >= opts.MaxTries {
				return result, nil
			}
			result.Tries++
			pts := []route.PointSpec{
				points[0],
				route.Spec(candidates[i], route.RoleVia),
				route.Spec(candidates[j], route.RoleVia),
				points[len(points)-1],
			}
			d, err := call(ctx, pts, extra)
			if err != nil {
				result.LastErr = err
				continue
			}
			if compliant(d, opts.MaxAngleDeg) {
				result.Response = d
				result.Vias = []geo.Point{candidates[i], candidates[j]}
				return result, nil
			}
		}
	}

	return result, nil
}

func compliant(resp *route.Response, maxAngleDeg float64) bool {
	if resp == nil || resp.Status != route.StatusOK || len(resp.Result) == 0 {
		return false
	}
	return resp.Result[0].MaxRoadAngle() <= maxAngleDeg
}

// worstSegment scans every elevation-bearing geometry fragment of the
// route and returns the consecutive coordinate pair with the steepest
// incline.
func worstSegment(r *route.Route) (a, b geo.Point, ok bool) {
	if r == nil {
		return a, b, false
	}
	best := 0.0
	for _, man := range r.Maneuvers {
		if man.OutcomingPath == nil {
			continue
		}
		for _, g := range man.OutcomingPath.Geometry {
			if g.Selection == "" {
				continue
			}
			vs := geo.ParseLineString(g.Selection)
			if len(vs) < 2 {
				continue
			}
			if pa, pb, deg, found := geo.MaxSlopeSegment(vs); found && deg > best {
				best = deg
				a, b = pa, pb
				ok = true
			}
		}
	}
	return a, b, ok
}

func insertBeforeLast(points []route.PointSpec, via route.PointSpec) []route.PointSpec {
	out := make([]route.PointSpec, 0, len(points)+1)
	out = append(out, points[:len(points)-1]...)
	out = append(out, via)
	out = append(out, points[len(points)-1])
	return out
}
