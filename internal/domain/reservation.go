package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPaid      ReservationStatus = "paid"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ID                     int64             `json:"id"`
	SpaceID                int64             `json:"space_id" validate:"required"`
	StartTime              time.Time         `json:"start_time" validate:"required"`
	EndTime                time.Time         `json:"end_time" validate:"required"`
	Status                 ReservationStatus `json:"status"`
	RecurringReservationID *int64            `json:"recurring_reservation_id,omitempty"`
	// IsException marks an occurrence that was individually modified or
	// cancelled; the extension job must never overwrite it.
	IsException bool       `json:"is_exception"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	CreatedByID int64      `json:"created_by_id"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Space *Space `json:"space,omitempty" gorm:"foreignKey:SpaceID"`
}

// Active reports whether the reservation still occupies its slot.
func (r Reservation) Active() bool {
	return r.Status != ReservationCancelled
}

// TimeRange is a half-open [Start, End) interval of absolute instants.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open ranges intersect. Touching
// boundaries (a.End == b.Start) do not overlap.
func (a TimeRange) Overlaps(b TimeRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Duration returns the range length.
func (a TimeRange) Duration() time.Duration {
	return a.End.Sub(a.Start)
}
