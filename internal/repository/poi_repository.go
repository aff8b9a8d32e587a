package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/poi"
	"github.com/stepfree-maps/service-routing/internal/domain/route"
	"github.com/stepfree-maps/service-routing/internal/platform/apperr"
)

// POIModel is the GORM model for the points_of_interest table.
type POIModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;size:200"`
	Category  string    `gorm:"size:100;index"`
	Lon       float64   `gorm:"not null;index:idx_poi_lon"`
	Lat       float64   `gorm:"not null;index:idx_poi_lat"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (POIModel) TableName() string {
	return "points_of_interest"
}

// GormPOIRepository is the GORM-based implementation of poi.Repository.
type GormPOIRepository struct {
	db *gorm.DB
}

// NewGormPOIRepository creates a new GormPOIRepository.
func NewGormPOIRepository(db *gorm.DB) *GormPOIRepository {
	return &GormPOIRepository{db: db}
}

// Save persists a new point of interest.
func (r *GormPOIRepository) Save(ctx context.Context, p *poi.PointOfInterest) error {
	if err := r.db.WithContext(ctx).Create(toModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save poi: %w", err)
	}
	return nil
}

// FindByID retrieves a point of interest by id.
func (r *GormPOIRepository) FindByID(ctx context.Context, id uuid.UUID) (*poi.PointOfInterest, error) {
	var model POIModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("PointOfInterest", id.String())
		}
		return nil, fmt.Errorf("failed to find poi by id: %w", err)
	}
	return toDomain(&model), nil
}

// FindInBBox returns the points of interest inside the box, oldest first.
func (r *GormPOIRepository) FindInBBox(ctx context.Context, box route.BBox) ([]*poi.PointOfInterest, error) {
	var models []POIModel
	if err := r.db.WithContext(ctx).
		Where("lon BETWEEN ? AND ?", box.MinLon, box.MaxLon).
		Where("lat BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find pois in bbox: %w", err)
	}
	return toDomainList(models), nil
}

// List returns points of interest with pagination.
func (r *GormPOIRepository) List(ctx context.Context, page, limit int) ([]*poi.PointOfInterest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&POIModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pois: %w", err)
	}

	var models []POIModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pois: %w", err)
	}
	return toDomainList(models), total, nil
}

// Delete removes a point of interest.
func (r *GormPOIRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&POIModel{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete poi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NewNotFoundError("PointOfInterest", id.String())
	}
	return nil
}

func toModel(p *poi.PointOfInterest) *POIModel {
	return &POIModel{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Lon:       p.Location.Lon,
		Lat:       p.Location.Lat,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomain(m *POIModel) *poi.PointOfInterest {
	return &poi.PointOfInterest{
		ID:        m.ID,
		Name:      m.Name,
		Category:  m.Category,
		Location:  geo.Point{Lon: m.Lon, Lat: m.Lat},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainList(models []POIModel) []*poi.PointOfInterest {
	out := make([]*poi.PointOfInterest, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}
