package repository

import (
	"context"

	"venuebook/internal/domain"

	"gorm.io/gorm"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	var v domain.Venue
	if err := r.db.WithContext(ctx).Preload("Spaces").First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VenueRepository) List(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	var venues []domain.Venue
	q := r.db.WithContext(ctx).Preload("Spaces").Order("id asc")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

// GetSpace resolves a space with its owning venue preloaded; callers rely on
// Venue being present for timezone and rule lookups.
func (r *VenueRepository) GetSpace(ctx context.Context, id int64) (*domain.Space, error) {
	var s domain.Space
	if err := r.db.WithContext(ctx).Preload("Venue").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
