package payment

import (
	"context"

	"venuebook/internal/domain"
)

// Collaborator is the external checkout provider. The scheduling core only
// hands over the amount to collect; session lifecycle, webhooks and refunds
// stay on the provider's side of the fence.
type Collaborator interface {
	RequestCheckout(ctx context.Context, reservationID int64, amount string) error
}

// ReservationStore is the slice of the reservation repository the completion
// path needs.
type ReservationStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
}
