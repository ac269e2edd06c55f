package domain

import "time"

// MinutesPerDay is the upper bound for minute-of-day values.
const MinutesPerDay = 1440

type Venue struct {
	ID           int64      `json:"id"`
	OwnerID      int64      `json:"owner_id"`
	Name         string     `json:"name" validate:"required"`
	TimezoneID   string     `json:"timezone_id" validate:"required"`
	DisplayStart int        `json:"display_start"`
	DisplayEnd   int        `json:"display_end"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`

	Spaces []Space `json:"spaces,omitempty"`
}

// Valid reports whether the visible scheduling window is well formed.
func (v Venue) Valid() bool {
	return v.DisplayStart >= 0 && v.DisplayStart < v.DisplayEnd && v.DisplayEnd <= MinutesPerDay
}

type Space struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue_id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Capacity  int       `json:"capacity" validate:"required,gt=0"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Venue *Venue `json:"venue,omitempty"`
}

// AvailabilityRule defines a minute-of-day window during which bookings are
// allowed. SpaceID nil means the rule covers every space in the venue;
// DayOfWeek nil means the rule covers every day (0 = Sunday).
type AvailabilityRule struct {
	ID          int64  `json:"id"`
	VenueID     int64  `json:"venue_id" validate:"required"`
	SpaceID     *int64 `json:"space_id,omitempty"`
	DayOfWeek   *int   `json:"day_of_week,omitempty"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}

// Valid reports whether the rule window lies inside a single day.
func (r AvailabilityRule) Valid() bool {
	return r.StartMinute >= 0 && r.StartMinute < r.EndMinute && r.EndMinute <= MinutesPerDay
}

// UnavailabilityBlock is a derived minute-of-day range during which a space
// cannot be booked. Blocks are recomputed on read and never persisted.
type UnavailabilityBlock struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}
