package repository

import (
	"context"

	"venuebook/internal/domain"

	"gorm.io/gorm"
)

type AvailabilityRuleRepository struct {
	db *gorm.DB
}

func NewAvailabilityRuleRepository(db *gorm.DB) *AvailabilityRuleRepository {
	return &AvailabilityRuleRepository{db: db}
}

func (r *AvailabilityRuleRepository) GetByVenueID(ctx context.Context, venueID int64) ([]domain.AvailabilityRule, error) {
	var rules []domain.AvailabilityRule
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("start_minute asc").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityRuleRepository) Create(ctx context.Context, rule *domain.AvailabilityRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}
