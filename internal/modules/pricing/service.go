package pricing

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/timeutil"

	"gorm.io/gorm"
)

type Service struct {
	rules  PaymentRuleRepository
	spaces SpaceRepository
	tags   UserTagRepository
}

func NewService(rules PaymentRuleRepository, spaces SpaceRepository, tags UserTagRepository) *Service {
	return &Service{rules: rules, spaces: spaces, tags: tags}
}

type QuoteRequest struct {
	SpaceID   int64     `json:"space_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	UserID    int64     `json:"user_id"`
	UserTags  []string  `json:"user_tags,omitempty"`
}

// GetReservationPrice evaluates the venue's rule set for the candidate
// booking and returns the full audit breakdown. Explicit UserTags on the
// request win over a repository lookup, which keeps the engine usable for
// anonymous quotes.
func (s *Service) GetReservationPrice(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.EndTime.Before(req.StartTime) {
		return nil, ErrValidation
	}

	space, err := s.spaces.GetSpace(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rules, err := s.rules.GetByVenueID(ctx, space.VenueID)
	if err != nil {
		return nil, err
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	userTags := req.UserTags
	if len(userTags) == 0 && req.UserID != 0 {
		userTags, err = s.tags.GetUserTags(ctx, req.UserID, space.VenueID)
		if err != nil {
			return nil, err
		}
	}

	loc, err := timeutil.LocationFor(space.Venue.TimezoneID)
	if err != nil {
		return nil, err
	}

	q := Evaluate(rules, req.StartTime, req.EndTime, req.SpaceID, userTags, loc)
	return &q, nil
}

// CreateSpaceRule adds a pricing rule scoped to a single space. The rule is
// validated against the venue's existing rule set, so a duplicate priority or
// a malformed rule never reaches storage.
func (s *Service) CreateSpaceRule(ctx context.Context, spaceID int64, rule *domain.PaymentRule) error {
	space, err := s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	rule.VenueID = space.VenueID
	rule.SpaceIDs = []int64{spaceID}

	existing, err := s.rules.GetByVenueID(ctx, space.VenueID)
	if err != nil {
		return err
	}
	if err := ValidateRules(append(existing, *rule)); err != nil {
		return err
	}

	return s.rules.Create(ctx, rule)
}

type PaymentDecision struct {
	RequiresPayment bool   `json:"requires_payment"`
	TotalCost       string `json:"total_cost"`
}

// RunPaymentRules is the thin variant used by the booking path: only the
// payment decision, no breakdown.
func (s *Service) RunPaymentRules(ctx context.Context, req QuoteRequest) (*PaymentDecision, error) {
	q, err := s.GetReservationPrice(ctx, req)
	if err != nil {
		return nil, err
	}
	return &PaymentDecision{
		RequiresPayment: q.RequiresPayment,
		TotalCost:       q.TotalCost.StringFixed(2),
	}, nil
}
