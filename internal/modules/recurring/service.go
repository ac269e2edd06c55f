package recurring

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/timeutil"
	"venuebook/internal/repository"

	"gorm.io/gorm"
)

// ExtendLookahead is how far ahead a series must already be populated before
// the extension job leaves it alone.
const ExtendLookahead = 28 * 24 * time.Hour

type Service struct {
	series      RecurringRepository
	occurrences OccurrenceRepository
	conflicts   ConflictFinder
	orgs        OrganizationGate
	events      EventSink
	now         func() time.Time
}

func NewService(series RecurringRepository, occurrences OccurrenceRepository, conflicts ConflictFinder, orgs OrganizationGate, events EventSink) *Service {
	if events == nil {
		events = noopSink{}
	}
	return &Service{
		series:      series,
		occurrences: occurrences,
		conflicts:   conflicts,
		orgs:        orgs,
		events:      events,
		now:         time.Now,
	}
}

type noopSink struct{}

func (noopSink) ReservationChanged(*domain.Reservation) {}

// Create validates the template, expands all occurrences up front, checks
// every one of them for conflicts and persists the series atomically. A
// single conflicting occurrence rejects the whole series; there is no partial
// creation.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.RecurringReservation, error) {
	start := timeutil.Normalize(req.StartTime)
	end := timeutil.Normalize(req.EndTime)

	if !start.Before(end) {
		return nil, ErrValidation
	}
	if !domain.ValidFrequency(req.Frequency) || req.Interval < 1 {
		return nil, ErrValidation
	}
	if req.EndsOn != nil && req.EndsOn.Before(start) {
		return nil, ErrValidation
	}

	allowed, err := s.orgs.AllowsRecurringReservations(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotAllowed
	}

	ranges := NextOccurrences(start, end, req.Frequency, req.Interval, req.EndsOn, start)
	if len(ranges) == 0 {
		return nil, ErrValidation
	}

	conflicting, err := s.conflicts.FindConflicts(ctx, req.SpaceID, ranges, 0)
	if err != nil {
		return nil, err
	}
	if len(conflicting) > 0 {
		return nil, ErrConflict
	}

	rr := &domain.RecurringReservation{
		SpaceID:        req.SpaceID,
		OrganizationID: req.OrganizationID,
		CreatedByID:    req.CreatedByID,
		StartTime:      start,
		EndTime:        end,
		Frequency:      req.Frequency,
		Interval:       req.Interval,
		EndsOn:         req.EndsOn,
		Description:    req.Description,
		Status:         domain.RecurringActive,
	}

	occurrences := make([]domain.Reservation, 0, len(ranges))
	for _, rg := range ranges {
		occurrences = append(occurrences, domain.Reservation{
			SpaceID:     req.SpaceID,
			StartTime:   rg.Start,
			EndTime:     rg.End,
			Status:      domain.ReservationConfirmed,
			Description: req.Description,
			CreatedByID: req.CreatedByID,
			UserID:      req.CreatedByID,
		})
	}

	if err := s.series.Create(ctx, rr, occurrences); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, ErrConflict
		}
		return nil, err
	}
	for i := range rr.Occurrences {
		s.events.ReservationChanged(&rr.Occurrences[i])
	}
	return rr, nil
}

// CancelSeries transitions the series to cancelled and bulk-cancels its
// remaining occurrences. Terminal: a cancelled series is never extended.
func (s *Service) CancelSeries(ctx context.Context, id, actorID int64) (*domain.RecurringReservation, error) {
	rr, err := s.getSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	if rr.CreatedByID != actorID {
		return nil, ErrForbidden
	}
	if rr.Status == domain.RecurringCancelled {
		return nil, ErrInvalidState
	}

	if err := s.series.CancelSeries(ctx, id, s.now()); err != nil {
		return nil, err
	}
	return s.getSeries(ctx, id)
}

// CancelOccurrence cancels one future occurrence and marks it an exception so
// the extension job never resurrects the slot. The series and its sibling
// occurrences are untouched.
func (s *Service) CancelOccurrence(ctx context.Context, seriesID, reservationID, actorID int64) (*domain.Reservation, error) {
	rr, err := s.getSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if rr.CreatedByID != actorID {
		return nil, ErrForbidden
	}

	occ, err := s.getOccurrence(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if occ.RecurringReservationID == nil || *occ.RecurringReservationID != seriesID {
		return nil, ErrNotFound
	}
	if occ.Status == domain.ReservationCancelled {
		return nil, ErrInvalidState
	}
	if !occ.StartTime.After(s.now()) {
		// Cannot cancel a past reservation.
		return nil, ErrInvalidState
	}

	if err := s.occurrences.CancelOccurrence(ctx, reservationID, s.now()); err != nil {
		return nil, err
	}
	occ, err = s.getOccurrence(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	s.events.ReservationChanged(occ)
	return occ, nil
}

// ModifyOccurrence applies a single-occurrence exception. A time change
// re-runs conflict detection excluding the occurrence itself; on conflict
// nothing is mutated.
func (s *Service) ModifyOccurrence(ctx context.Context, req ModifyOccurrenceRequest) (*domain.Reservation, error) {
	occ, err := s.getOccurrence(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if occ.CreatedByID != req.ActorID {
		return nil, ErrForbidden
	}
	if occ.Status == domain.ReservationCancelled {
		return nil, ErrInvalidState
	}

	start, end := occ.StartTime, occ.EndTime
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
		conflicting, err := s.conflicts.FindConflicts(ctx, occ.SpaceID, []domain.TimeRange{{Start: start, End: end}}, occ.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicting) > 0 {
			return nil, ErrConflict
		}
		occ.StartTime = start
		occ.EndTime = end
	}
	if req.Description != nil {
		occ.Description = *req.Description
	}
	if req.Status != nil {
		occ.Status = *req.Status
	}
	occ.IsException = true

	if err := s.occurrences.Update(ctx, occ); err != nil {
		return nil, err
	}
	s.events.ReservationChanged(occ)
	return occ, nil
}

// ExtendSeries tops up one active series so it stays populated at least
// ExtendLookahead into the future. Unlike creation this is best effort: an
// occurrence that conflicts is silently dropped and the rest are inserted.
func (s *Service) ExtendSeries(ctx context.Context, rr *domain.RecurringReservation) (ExtendResult, error) {
	res := ExtendResult{SeriesID: rr.ID}
	if rr.Status != domain.RecurringActive {
		return res, nil
	}

	now := s.now()
	latest, err := s.occurrences.LatestOccurrenceStart(ctx, rr.ID)
	if err != nil {
		return res, err
	}
	if latest != nil && latest.Sub(now) >= ExtendLookahead {
		return res, nil
	}

	// Start strictly after the latest existing occurrence so reruns never
	// duplicate it; with no occurrences at all, start from now.
	startFrom := now
	if latest != nil && latest.After(now) {
		startFrom = latest.Add(time.Minute)
	}

	ranges := NextOccurrences(rr.StartTime, rr.EndTime, rr.Frequency, rr.Interval, rr.EndsOn, startFrom)
	if len(ranges) == 0 {
		return res, nil
	}

	// Cancelled occurrences are holes, not free slots: their rows stay in
	// the window behind LatestOccurrenceStart, so any generated slot that
	// already has a row, whatever its status, must not be re-created.
	existing, err := s.occurrences.OccurrenceStartsSince(ctx, rr.ID, startFrom)
	if err != nil {
		return res, err
	}
	taken := make(map[int64]struct{}, len(existing))
	for _, t := range existing {
		taken[t.Unix()] = struct{}{}
	}

	batch := make([]domain.Reservation, 0, len(ranges))
	for _, rg := range ranges {
		if _, ok := taken[rg.Start.Unix()]; ok {
			continue
		}
		conflicting, err := s.conflicts.FindConflicts(ctx, rr.SpaceID, []domain.TimeRange{rg}, 0)
		if err != nil {
			return res, err
		}
		if len(conflicting) > 0 {
			res.Dropped++
			continue
		}
		seriesID := rr.ID
		batch = append(batch, domain.Reservation{
			SpaceID:                rr.SpaceID,
			StartTime:              rg.Start,
			EndTime:                rg.End,
			Status:                 domain.ReservationConfirmed,
			RecurringReservationID: &seriesID,
			Description:            rr.Description,
			CreatedByID:            rr.CreatedByID,
			UserID:                 rr.CreatedByID,
		})
	}

	if len(batch) > 0 {
		if err := s.occurrences.BulkInsert(ctx, batch); err != nil {
			if errors.Is(err, repository.ErrOverlap) {
				// Lost a race with a booking made mid-extension; the next run
				// will retry the window.
				res.Dropped += len(batch)
				return res, nil
			}
			return res, err
		}
		for i := range batch {
			s.events.ReservationChanged(&batch[i])
		}
	}
	res.Inserted = len(batch)
	return res, nil
}

// ActiveSeries lists every series the extension job has to consider.
func (s *Service) ActiveSeries(ctx context.Context) ([]domain.RecurringReservation, error) {
	return s.series.FindActiveSeries(ctx)
}

func (s *Service) getSeries(ctx context.Context, id int64) (*domain.RecurringReservation, error) {
	rr, err := s.series.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rr, nil
}

func (s *Service) getOccurrence(ctx context.Context, id int64) (*domain.Reservation, error) {
	occ, err := s.occurrences.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return occ, nil
}
