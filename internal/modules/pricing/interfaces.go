package pricing

import (
	"context"

	"venuebook/internal/domain"
)

// PaymentRuleRepository loads a venue's rule set with conditions attached.
type PaymentRuleRepository interface {
	GetByVenueID(ctx context.Context, venueID int64) ([]domain.PaymentRule, error)
	Create(ctx context.Context, rule *domain.PaymentRule) error
}

// SpaceRepository resolves a space together with its owning venue.
type SpaceRepository interface {
	GetSpace(ctx context.Context, id int64) (*domain.Space, error)
}

// UserTagRepository looks up the tags a user carries within a venue; consumed
// only by condition matching. Tag management lives in an external service.
type UserTagRepository interface {
	GetUserTags(ctx context.Context, userID, venueID int64) ([]string, error)
}
