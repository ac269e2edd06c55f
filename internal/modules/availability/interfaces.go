package availability

import (
	"context"

	"venuebook/internal/domain"
)

// SpaceRepository resolves a space together with its owning venue.
type SpaceRepository interface {
	GetSpace(ctx context.Context, id int64) (*domain.Space, error)
}

// AvailabilityRuleRepository loads and stores the venue's open-hours rules.
type AvailabilityRuleRepository interface {
	GetByVenueID(ctx context.Context, venueID int64) ([]domain.AvailabilityRule, error)
	Create(ctx context.Context, rule *domain.AvailabilityRule) error
}
