package repository

import (
	"context"
	"errors"

	"venuebook/internal/domain"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// AllowsRecurringReservations answers the recurring manager's plan gate. An
// unknown organization is treated as not allowed rather than as an error.
func (r *OrganizationRepository) AllowsRecurringReservations(ctx context.Context, organizationID int64) (bool, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).First(&org, organizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return org.AllowsRecurringReservation, nil
}
