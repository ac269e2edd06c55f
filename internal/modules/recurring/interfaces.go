package recurring

import (
	"context"
	"time"

	"venuebook/internal/domain"
)

// RecurringRepository persists series templates and their occurrence batches.
type RecurringRepository interface {
	// Create persists the series and all of its occurrences in one
	// transaction; either everything lands or nothing does.
	Create(ctx context.Context, rr *domain.RecurringReservation, occurrences []domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.RecurringReservation, error)
	FindActiveSeries(ctx context.Context) ([]domain.RecurringReservation, error)
	// CancelSeries marks the series cancelled and bulk-transitions its
	// non-cancelled occurrences to cancelled. Past occurrences survive as an
	// audit trail.
	CancelSeries(ctx context.Context, id int64, at time.Time) error
}

// OccurrenceRepository covers the occurrence-level queries the manager needs.
type OccurrenceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	// LatestOccurrenceStart returns the start of the latest non-cancelled
	// occurrence of the series, or nil when the series has none.
	LatestOccurrenceStart(ctx context.Context, seriesID int64) (*time.Time, error)
	// OccurrenceStartsSince returns every occurrence start of the series at
	// or after from, cancelled and exception rows included.
	OccurrenceStartsSince(ctx context.Context, seriesID int64, from time.Time) ([]time.Time, error)
	BulkInsert(ctx context.Context, reservations []domain.Reservation) error
	Update(ctx context.Context, r *domain.Reservation) error
	CancelOccurrence(ctx context.Context, id int64, at time.Time) error
}

// ConflictFinder is the conflict detector port; satisfied by booking.Checker.
type ConflictFinder interface {
	FindConflicts(ctx context.Context, spaceID int64, ranges []domain.TimeRange, excludeID int64) ([]domain.TimeRange, error)
}

// OrganizationGate asks the external membership service whether an
// organization's plan permits recurring bookings.
type OrganizationGate interface {
	AllowsRecurringReservations(ctx context.Context, organizationID int64) (bool, error)
}

// EventSink receives reservation lifecycle events; a hub broadcasts them to
// connected clients. Nil-safe via the noop implementation.
type EventSink interface {
	ReservationChanged(r *domain.Reservation)
}
