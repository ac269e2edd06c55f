package payment

import (
	"context"
	"errors"

	"venuebook/internal/domain"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("reservation not found")
	ErrInvalidState = errors.New("reservation is not awaiting payment")
)

type Service struct {
	reservations ReservationStore
	logger       zerolog.Logger
}

func NewService(reservations ReservationStore, logger zerolog.Logger) *Service {
	return &Service{reservations: reservations, logger: logger}
}

// CompletePayment advances a reservation to paid after the external provider
// reports success. Idempotent: completing an already-paid reservation is a
// no-op, so duplicate provider callbacks are harmless.
func (s *Service) CompletePayment(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch r.Status {
	case domain.ReservationPaid:
		s.logger.Info().Int64("reservation_id", r.ID).Msg("duplicate payment completion, already paid")
		return r, nil
	case domain.ReservationPending, domain.ReservationConfirmed:
	default:
		return nil, ErrInvalidState
	}

	r.Status = domain.ReservationPaid
	if err := s.reservations.Update(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("reservation_id", r.ID).Msg("reservation paid")
	return r, nil
}

// LogCollaborator is the default Collaborator when no provider is configured:
// it records the checkout request and succeeds, which keeps development and
// test environments flowing without a real gateway.
type LogCollaborator struct {
	Logger zerolog.Logger
}

func (l LogCollaborator) RequestCheckout(ctx context.Context, reservationID int64, amount string) error {
	l.Logger.Info().Int64("reservation_id", reservationID).Str("amount", amount).Msg("checkout requested")
	return nil
}
