// Package poi models the curated points of interest that feed the via
// selector: lit squares, landmarks, venues worth passing by.
package poi

import (
	"time"

	"github.com/google/uuid"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/platform/apperr"
)

// PointOfInterest is a curated via candidate.
type PointOfInterest struct {
	ID        uuid.UUID
	Name      string
	Category  string
	Location  geo.Point
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New validates and creates a PointOfInterest.
func New(name, category string, location geo.Point) (*PointOfInterest, error) {
	if name == "" {
		return nil, apperr.NewValidationError("poi name is required")
	}
	if location.Lat < -90 || location.Lat > 90 || location.Lon < -180 || location.Lon > 180 {
		return nil, apperr.NewValidationError("poi coordinates out of range")
	}
	now := time.Now()
	return &PointOfInterest{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
