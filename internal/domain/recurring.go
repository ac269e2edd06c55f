package domain

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ValidFrequency reports whether f is one of the supported generator steps.
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type RecurringStatus string

const (
	RecurringActive    RecurringStatus = "active"
	RecurringCancelled RecurringStatus = "cancelled"
)

// RecurringReservation is the template for a series of occurrences. StartTime
// and EndTime define the first occurrence's time of day and duration; the
// frequency/interval pair defines a deterministic generator. Changing the
// generator never rewrites past occurrences.
type RecurringReservation struct {
	ID             int64           `json:"id"`
	SpaceID        int64           `json:"space_id" validate:"required"`
	OrganizationID int64           `json:"organization_id" validate:"required"`
	CreatedByID    int64           `json:"created_by_id"`
	StartTime      time.Time       `json:"start_time" validate:"required"`
	EndTime        time.Time       `json:"end_time" validate:"required"`
	Frequency      Frequency       `json:"frequency" validate:"required"`
	Interval       int             `json:"interval" validate:"required,gt=0"`
	EndsOn         *time.Time      `json:"ends_on,omitempty"`
	Description    string          `json:"description,omitempty" gorm:"type:text"`
	Status         RecurringStatus `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`

	Occurrences []Reservation `json:"occurrences,omitempty" gorm:"foreignKey:RecurringReservationID"`
}
