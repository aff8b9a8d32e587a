package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/poi"
	"github.com/stepfree-maps/service-routing/internal/domain/reroute"
	"github.com/stepfree-maps/service-routing/internal/domain/route"
	"github.com/stepfree-maps/service-routing/internal/events"
	"github.com/stepfree-maps/service-routing/internal/platform/apperr"
)

// RoutingClient issues one routing call against the external provider.
type RoutingClient interface {
	Route(ctx context.Context, points []route.PointSpec, extra map[string]any) (*route.Response, error)
}

// PlaceSource supplies open-venue via candidates inside a bounding box.
type PlaceSource interface {
	OpenPlaces(ctx context.Context, box route.BBox, now time.Time) ([]geo.Point, error)
}

// StreetSource supplies lit-street via candidates inside a bounding box.
type StreetSource interface {
	LitStreetMidpoints(ctx context.Context, box route.BBox) ([]geo.Point, error)
}

// ScenicRouteRequest asks for a route nudged toward interesting points.
type ScenicRouteRequest struct {
	Points      []geo.Point `json:"points" binding:"required,min=2"`
	MaxLateralM *float64    `json:"max_lateral_m"`
	MinStepM    *float64    `json:"min_step_m"`
	MaxVias     *int        `json:"max_vias"`
}

// AccessibleRouteRequest asks for a route within a slope limit.
type AccessibleRouteRequest struct {
	Points      []geo.Point `json:"points" binding:"required,min=2"`
	MaxAngleDeg *float64    `json:"max_angle_deg"`
	MaxTries    *int        `json:"max_tries"`
}

// ScenicRouteDTO compares the base route against the via-augmented one.
type ScenicRouteDTO struct {
	RequestID  string         `json:"request_id"`
	Base       route.Metrics  `json:"base"`
	Scenic     *route.Metrics `json:"scenic,omitempty"`
	Vias       []geo.Point    `json:"vias"`
	Candidates int            `json:"candidates_considered"`
	Route      *route.Route   `json:"route,omitempty"`
}

// AccessibleRouteDTO reports the outcome of a slope-constrained search.
type AccessibleRouteDTO struct {
	RequestID string         `json:"request_id"`
	Compliant bool           `json:"compliant"`
	Tries     int            `json:"tries"`
	Metrics   *route.Metrics `json:"metrics,omitempty"`
	Vias      []geo.Point    `json:"vias,omitempty"`
	Route     *route.Route   `json:"route,omitempty"`
	LastError string         `json:"last_error,omitempty"`
}

// PlannerService orchestrates the two augmented-routing flows: scenic
// (pass near interesting points) and accessible (stay under a slope
// limit). Every request is stateless and independent.
type PlannerService struct {
	routing   RoutingClient
	places    PlaceSource
	streets   StreetSource
	pois      poi.Repository
	publisher *events.Publisher
	logger    *zap.Logger
	viaOpts   route.ViaOptions
	slopeOpts reroute.Options
}

// NewPlannerService creates a PlannerService. places, streets, pois and
// publisher are optional; a nil source simply contributes no candidates.
func NewPlannerService(
	routing RoutingClient,
	places PlaceSource,
	streets StreetSource,
	pois poi.Repository,
	publisher *events.Publisher,
	logger *zap.Logger,
	viaOpts route.ViaOptions,
	slopeOpts reroute.Options,
) *PlannerService {
	return &PlannerService{
		routing:   routing,
		places:    places,
		streets:   streets,
		pois:      pois,
		publisher: publisher,
		logger:    logger,
		viaOpts:   viaOpts,
		slopeOpts: slopeOpts,
	}
}

// PlanScenic routes the given points, gathers via candidates near the base
// route from every configured source, selects an ordered thinned subset
// and re-routes through them as preference points. The base route is
// always returned; the scenic variant is present when a re-route
// succeeded.
func (s *PlannerService) PlanScenic(ctx context.Context, req ScenicRouteRequest) (*ScenicRouteDTO, error) {
	requestID := uuid.NewString()
	stops := route.Stops(req.Points)

	resp, err := s.routing.Route(ctx, stops, nil)
	if err != nil {
		return nil, apperr.NewUnavailableError(fmt.Sprintf("routing call failed: %v", err))
	}
	if len(resp.Result) == 0 {
		return nil, apperr.NewUnavailableError("routing returned no routes")
	}
	base := &resp.Result[0]

	poly := base.Polyline()
	if len(poly) < 2 {
		// No geometry available: degenerate straight line between the
		// outer stops still lets nearby candidates qualify.
		poly = []geo.Point{req.Points[0], req.Points[len(req.Points)-1]}
	}

	box, ok := base.BBox()
	if !ok {
		box, _ = route.BBoxAround(req.Points)
	}

	candidates := s.gatherCandidates(ctx, box)
	opts := s.viaOptionsFor(req)
	vias := route.SelectViasAlong(poly, candidates, opts)

	dto := &ScenicRouteDTO{
		RequestID:  requestID,
		Base:       base.Metrics(),
		Vias:       vias,
		Candidates: len(candidates),
		Route:      base,
	}

	if len(vias) > 0 {
		pts := interleaveVias(stops, vias)
		improved, err := s.routing.Route(ctx, pts, nil)
		if err != nil {
			s.logger.Warn("scenic re-route failed, serving base route",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		} else if len(improved.Result) > 0 {
			scenic := &improved.Result[0]
			m := scenic.Metrics()
			dto.Scenic = &m
			dto.Route = scenic
		}
	}

	s.publisher.RoutePlanned(ctx, events.RoutePlannedEvent{
		RequestID:   requestID,
		Flow:        "scenic",
		Compliant:   true,
		ViaCount:    len(vias),
		MaxAngleDeg: dto.Base.MaxAngleDeg,
		DistanceM:   dto.Base.DistanceM,
		DurationS:   dto.Base.DurationS,
	})
	return dto, nil
}

// PlanAccessible runs the slope-constrained search. Budget exhaustion is
// reported as a non-compliant result, not an error; only a failure of the
// mandatory first routing call errors out.
func (s *PlannerService) PlanAccessible(ctx context.Context, req AccessibleRouteRequest) (*AccessibleRouteDTO, error) {
	requestID := uuid.NewString()
	stops := route.Stops(req.Points)
	opts := s.slopeOptionsFor(req)

	result, err := reroute.WithSlopeLimit(ctx, s.routing.Route, stops, nil, opts)
	if err != nil {
		return nil, apperr.NewUnavailableError(fmt.Sprintf("routing call failed: %v", err))
	}

	dto := &AccessibleRouteDTO{
		RequestID: requestID,
		Compliant: result.Compliant(),
		Tries:     result.Tries,
		Vias:      result.Vias,
	}
	if result.Compliant() {
		found := &result.Response.Result[0]
		m := found.Metrics()
		dto.Metrics = &m
		dto.Route = found
	}
	if result.LastErr != nil {
		dto.LastError = result.LastErr.Error()
	}

	evt := events.RoutePlannedEvent{
		RequestID: requestID,
		Flow:      "accessible",
		Compliant: dto.Compliant,
		Tries:     dto.Tries,
		ViaCount:  len(dto.Vias),
	}
	if dto.Metrics != nil {
		evt.MaxAngleDeg = dto.Metrics.MaxAngleDeg
		evt.DistanceM = dto.Metrics.DistanceM
		evt.DurationS = dto.Metrics.DurationS
	}
	s.publisher.RoutePlanned(ctx, evt)

	s.logger.Info("accessible route planned",
		zap.String("request_id", requestID),
		zap.Bool("compliant", dto.Compliant),
		zap.Int("tries", dto.Tries),
	)
	return dto, nil
}

// gatherCandidates merges via candidates from all configured sources.
// Source failures are logged and skipped; candidate gathering is
// best-effort.
func (s *PlannerService) gatherCandidates(ctx context.Context, box route.BBox) []geo.Point {
	var candidates []geo.Point

	if s.streets != nil {
		pts, err := s.streets.LitStreetMidpoints(ctx, box)
		if err != nil {
			s.logger.Warn("lit street lookup failed", zap.Error(err))
		} else {
			candidates = append(candidates, pts...)
		}
	}
	if s.places != nil {
		pts, err := s.places.OpenPlaces(ctx, box, time.Now())
		if err != nil {
			s.logger.Warn("open places lookup failed", zap.Error(err))
		} else {
			candidates = append(candidates, pts...)
		}
	}
	if s.pois != nil {
		curated, err := s.pois.FindInBBox(ctx, box)
		if err != nil {
			s.logger.Warn("curated poi lookup failed", zap.Error(err))
		} else {
			for _, p := range curated {
				candidates = append(candidates, p.Location)
			}
		}
	}
	return candidates
}

func (s *PlannerService) viaOptionsFor(req ScenicRouteRequest) route.ViaOptions {
	opts := s.viaOpts
	if req.MaxLateralM != nil {
		opts.MaxLateralM = *req.MaxLateralM
	}
	if req.MinStepM != nil {
		opts.MinStepM = *req.MinStepM
	}
	if req.MaxVias != nil {
		opts.MaxVias = *req.MaxVias
	}
	return opts
}

func (s *PlannerService) slopeOptionsFor(req AccessibleRouteRequest) reroute.Options {
	opts := s.slopeOpts
	if req.MaxAngleDeg != nil {
		opts.MaxAngleDeg = *req.MaxAngleDeg
	}
	if req.MaxTries != nil {
		opts.MaxTries = *req.MaxTries
	}
	return opts
}

// interleaveVias orders the outgoing point list as: original start, any
// original intermediate stops, the selected vias as preference points,
// original end.
func interleaveVias(stops []route.PointSpec, vias []geo.Point) []route.PointSpec {
	out := make([]route.PointSpec, 0, len(stops)+len(vias))
	out = append(out, stops[:len(stops)-1]...)
	for _, v := range vias {
		out = append(out, route.Spec(v, route.RolePref))
	}
	out = append(out, stops[len(stops)-1])
	return out
}
