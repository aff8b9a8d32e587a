package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/poi"
)

// CreatePOIRequest holds the data needed to register a curated point of
// interest.
type CreatePOIRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	Lon      float64 `json:"lon" binding:"required"`
	Lat      float64 `json:"lat" binding:"required"`
}

// POIDTO is the response representation of a point of interest.
type POIDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Lon       float64   `json:"lon"`
	Lat       float64   `json:"lat"`
	CreatedAt time.Time `json:"created_at"`
}

// POIService manages the curated via-candidate catalog.
type POIService struct {
	repo   poi.Repository
	logger *zap.Logger
}

// NewPOIService creates a new POIService.
func NewPOIService(repo poi.Repository, logger *zap.Logger) *POIService {
	return &POIService{repo: repo, logger: logger}
}

// CreatePOI registers a new curated point of interest.
func (s *POIService) CreatePOI(ctx context.Context, req CreatePOIRequest) (*POIDTO, error) {
	p, err := poi.New(req.Name, req.Category, geo.Point{Lon: req.Lon, Lat: req.Lat})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("poi created",
		zap.String("id", p.ID.String()),
		zap.String("name", p.Name),
	)
	dto := toPOIDTO(p)
	return &dto, nil
}

// ListPOIs returns curated points of interest with pagination.
func (s *POIService) ListPOIs(ctx context.Context, page, limit int) ([]POIDTO, int64, error) {
	items, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]POIDTO, len(items))
	for i, p := range items {
		dtos[i] = toPOIDTO(p)
	}
	return dtos, total, nil
}

// DeletePOI removes a curated point of interest.
func (s *POIService) DeletePOI(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func toPOIDTO(p *poi.PointOfInterest) POIDTO {
	return POIDTO{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Lon:       p.Location.Lon,
		Lat:       p.Location.Lat,
		CreatedAt: p.CreatedAt,
	}
}
