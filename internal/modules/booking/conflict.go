package booking

import (
	"context"

	"venuebook/internal/domain"
)

// Checker detects overlaps between candidate ranges and existing
// reservations. Each candidate is checked against a fresh query so a
// transactional caller always sees current rows.
type Checker struct {
	reservations OverlapQuerier
}

// OverlapQuerier runs the overlap query for one candidate range.
type OverlapQuerier interface {
	FindOverlapping(ctx context.Context, spaceID int64, rg domain.TimeRange, excludeID int64) ([]domain.Reservation, error)
}

func NewChecker(reservations OverlapQuerier) *Checker {
	return &Checker{reservations: reservations}
}

// FindConflicts returns the subset of candidate ranges that overlap a
// non-cancelled reservation on the space. The overlap test is half-open:
// a candidate ending exactly when an existing reservation starts does not
// conflict. excludeID, when non-zero, ignores that reservation (the one
// being edited).
func (c *Checker) FindConflicts(ctx context.Context, spaceID int64, ranges []domain.TimeRange, excludeID int64) ([]domain.TimeRange, error) {
	var conflicting []domain.TimeRange
	for _, rg := range ranges {
		existing, err := c.reservations.FindOverlapping(ctx, spaceID, rg, excludeID)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			conflicting = append(conflicting, rg)
		}
	}
	return conflicting, nil
}
