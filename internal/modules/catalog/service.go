package catalog

import (
	"context"
	"errors"

	"venuebook/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("venue not found")

// VenueRepository backs the read-only catalog.
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	List(ctx context.Context, limit, offset int) ([]domain.Venue, error)
}

type Service struct {
	venues VenueRepository
}

func NewService(venues VenueRepository) *Service {
	return &Service{venues: venues}
}

func (s *Service) ListVenues(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	return s.venues.List(ctx, limit, offset)
}

func (s *Service) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}
