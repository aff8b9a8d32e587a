package poi

import (
	"context"

	"github.com/google/uuid"

	"github.com/stepfree-maps/service-routing/internal/domain/route"
)

// Repository is the persistence port for curated points of interest.
type Repository interface {
	// Save persists a new point of interest.
	Save(ctx context.Context, p *PointOfInterest) error
	// FindByID retrieves a point of interest by id.
	FindByID(ctx context.Context, id uuid.UUID) (*PointOfInterest, error)
	// FindInBBox returns the points of interest inside the box.
	FindInBBox(ctx context.Context, box route.BBox) ([]*PointOfInterest, error)
	// List returns points of interest with pagination.
	List(ctx context.Context, page, limit int) ([]*PointOfInterest, int64, error)
	// Delete removes a point of interest.
	Delete(ctx context.Context, id uuid.UUID) error
}
