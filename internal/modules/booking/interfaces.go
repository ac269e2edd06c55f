package booking

import (
	"context"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/modules/pricing"
)

// ReservationRepository is the persistence port for single reservations.
// CreateChecked must run the overlap re-check and the insert in one
// transaction; the repository translates the no-overlap constraint violation
// into a conflict error so two concurrent creates can never both land.
type ReservationRepository interface {
	CreateChecked(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	CancelOccurrence(ctx context.Context, id int64, at time.Time) error
	FindOverlapping(ctx context.Context, spaceID int64, rg domain.TimeRange, excludeID int64) ([]domain.Reservation, error)
}

// SpaceRepository resolves a space together with its owning venue.
type SpaceRepository interface {
	GetSpace(ctx context.Context, id int64) (*domain.Space, error)
}

// AvailabilityService answers whether a candidate range lies inside the
// venue's open windows.
type AvailabilityService interface {
	CoversRange(ctx context.Context, space *domain.Space, start, end time.Time) (bool, error)
}

// Pricer evaluates payment rules for the new reservation.
type Pricer interface {
	RunPaymentRules(ctx context.Context, req pricing.QuoteRequest) (*pricing.PaymentDecision, error)
}

// PaymentCollaborator starts an external checkout flow for a priced
// reservation. The booking core only hands over the amount; provider state is
// not tracked here.
type PaymentCollaborator interface {
	RequestCheckout(ctx context.Context, reservationID int64, amount string) error
}

// EventSink receives reservation lifecycle events.
type EventSink interface {
	ReservationChanged(r *domain.Reservation)
}
