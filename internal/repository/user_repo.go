package repository

import (
	"context"

	"venuebook/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserTags returns the pricing tags a user carries within a venue.
func (r *UserRepository) GetUserTags(ctx context.Context, userID, venueID int64) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).
		Model(&domain.UserTag{}).
		Where("user_id = ? AND venue_id = ?", userID, venueID).
		Pluck("tag", &tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
