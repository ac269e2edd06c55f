package booking

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/modules/pricing"
	"venuebook/internal/pkg/timeutil"
	"venuebook/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	reservations ReservationRepository
	spaces       SpaceRepository
	availability AvailabilityService
	checker      *Checker
	pricer       Pricer
	payments     PaymentCollaborator
	events       EventSink
	now          func() time.Time
}

func NewService(
	reservations ReservationRepository,
	spaces SpaceRepository,
	availability AvailabilityService,
	pricer Pricer,
	payments PaymentCollaborator,
	events EventSink,
) *Service {
	if events == nil {
		events = noopSink{}
	}
	return &Service{
		reservations: reservations,
		spaces:       spaces,
		availability: availability,
		checker:      NewChecker(reservations),
		pricer:       pricer,
		payments:     payments,
		events:       events,
		now:          time.Now,
	}
}

type noopSink struct{}

func (noopSink) ReservationChanged(*domain.Reservation) {}

// Checker exposes the conflict detector backed by this service's repository,
// for callers (the recurring manager) that need raw conflict queries.
func (s *Service) Checker() *Checker { return s.checker }

// CreateReservation validates the range against the venue's open hours,
// checks conflicts, prices the booking and persists it. The final overlap
// check and the insert happen inside one repository transaction; losing a
// race still surfaces as ErrConflict, never as a double booking.
func (s *Service) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	start := timeutil.Normalize(req.StartTime)
	end := timeutil.Normalize(req.EndTime)
	if !start.Before(end) {
		return nil, ErrValidation
	}
	if start.Before(s.now()) {
		return nil, ErrValidation
	}

	space, err := s.spaces.GetSpace(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	open, err := s.availability.CoversRange(ctx, space, start, end)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrUnavailable
	}

	conflicting, err := s.checker.FindConflicts(ctx, req.SpaceID, []domain.TimeRange{{Start: start, End: end}}, 0)
	if err != nil {
		return nil, err
	}
	if len(conflicting) > 0 {
		return nil, ErrConflict
	}

	userID := req.UserID
	if userID == 0 {
		userID = req.CreatedByID
	}
	r := &domain.Reservation{
		SpaceID:     req.SpaceID,
		StartTime:   start,
		EndTime:     end,
		Status:      domain.ReservationConfirmed,
		Description: req.Description,
		CreatedByID: req.CreatedByID,
		UserID:      userID,
	}

	decision, err := s.pricer.RunPaymentRules(ctx, pricing.QuoteRequest{
		SpaceID:   req.SpaceID,
		StartTime: start,
		EndTime:   end,
		UserID:    userID,
	})
	if err != nil {
		return nil, err
	}
	if decision.RequiresPayment {
		r.Status = domain.ReservationPending
	}

	if err := s.reservations.CreateChecked(ctx, r); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if decision.RequiresPayment && s.payments != nil {
		if err := s.payments.RequestCheckout(ctx, r.ID, decision.TotalCost); err != nil {
			// Checkout initiation failing does not undo the slot; the caller
			// can retry payment against the pending reservation.
			return r, err
		}
	}

	s.events.ReservationChanged(r)
	return r, nil
}

// ModifyReservation updates time, description or status. A time change
// re-runs conflict detection excluding the reservation itself; on conflict
// nothing is written. Occurrences of a series are additionally flagged as
// exceptions so the extension job leaves them alone.
func (s *Service) ModifyReservation(ctx context.Context, req ModifyReservationRequest) (*domain.Reservation, error) {
	r, err := s.get(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if r.CreatedByID != req.ActorID {
		return nil, ErrForbidden
	}
	if r.Status == domain.ReservationCancelled {
		return nil, ErrInvalidState
	}

	start, end := r.StartTime, r.EndTime
	timeChanged := false
	if req.StartTime != nil {
		start = timeutil.Normalize(*req.StartTime)
		timeChanged = true
	}
	if req.EndTime != nil {
		end = timeutil.Normalize(*req.EndTime)
		timeChanged = true
	}
	if !start.Before(end) {
		return nil, ErrValidation
	}

	if timeChanged {
		conflicting, err := s.checker.FindConflicts(ctx, r.SpaceID, []domain.TimeRange{{Start: start, End: end}}, r.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicting) > 0 {
			return nil, ErrConflict
		}
		r.StartTime = start
		r.EndTime = end
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.Status != nil {
		r.Status = *req.Status
	}
	if r.RecurringReservationID != nil {
		r.IsException = true
	}

	if err := s.reservations.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, ErrConflict
		}
		return nil, err
	}
	s.events.ReservationChanged(r)
	return r, nil
}

// CancelReservation soft-cancels a future reservation. Past reservations are
// kept untouched as audit history.
func (s *Service) CancelReservation(ctx context.Context, id, actorID int64) (*domain.Reservation, error) {
	r, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.CreatedByID != actorID {
		return nil, ErrForbidden
	}
	if r.Status == domain.ReservationCancelled {
		return nil, ErrInvalidState
	}
	if !r.StartTime.After(s.now()) {
		return nil, ErrInvalidState
	}

	if err := s.reservations.CancelOccurrence(ctx, id, s.now()); err != nil {
		return nil, err
	}
	r, err = s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.ReservationChanged(r)
	return r, nil
}

// GetByID retrieves a reservation.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}
