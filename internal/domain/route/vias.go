package route

import (
	"sort"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
)

// ViaOptions bound how far via candidates may sit from the base route and
// how densely they may be placed along it.
type ViaOptions struct {
	// MaxLateralM is the largest perpendicular distance from the route a
	// candidate may have and still be considered.
	MaxLateralM float64
	// MinStepM is the minimum arc-length spacing between kept candidates.
	MinStepM float64
	// MaxVias caps the number of candidates kept.
	MaxVias int
}

// DefaultViaOptions returns the service defaults.
func DefaultViaOptions() ViaOptions {
	return ViaOptions{MaxLateralM: 120, MinStepM: 350, MaxVias: 6}
}

// SelectVias filters candidates by closeness to the route's polyline,
// orders them by progress along it and thins them by minimum spacing. A
// route without usable geometry yields no vias.
func (r *Route) SelectVias(candidates []geo.Point, opts ViaOptions) []geo.Point {
	return SelectViasAlong(r.Polyline(), candidates, opts)
}

// SelectViasAlong is SelectVias over an explicit polyline, letting callers
// substitute a degenerate start-end line when a route has no geometry.
// The output is deterministic given identical inputs.
func SelectViasAlong(poly []geo.Point, candidates []geo.Point, opts ViaOptions) []geo.Point {
	if len(poly) < 2 {
		return nil
	}
	arc := ArcLengths(poly)

	type scored struct {
		progress float64
		point    geo.Point
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		proj := Project(c, poly, arc)
		if proj.Valid() && proj.LateralM <= opts.MaxLateralM {
			ranked = append(ranked, scored{progress: proj.ProgressM, point: c})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].progress < ranked[j].progress
	})

	var picked []geo.Point
	lastProgress := 0.0
	for _, s := range ranked {
		if len(picked) > 0 && s.progress-lastProgress < opts.MinStepM {
			continue
		}
		picked = append(picked, s.point)
		lastProgress = s.progress
		if len(picked) >= opts.MaxVias {
			break
		}
	}
	return picked
}
