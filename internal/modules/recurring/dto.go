package recurring

import (
	"time"

	"venuebook/internal/domain"
)

type CreateRequest struct {
	SpaceID        int64            `json:"space_id" binding:"required"`
	OrganizationID int64            `json:"organization_id" binding:"required"`
	StartTime      time.Time        `json:"start_time" binding:"required"`
	EndTime        time.Time        `json:"end_time" binding:"required"`
	Frequency      domain.Frequency `json:"frequency" binding:"required"`
	Interval       int              `json:"interval" binding:"required"`
	EndsOn         *time.Time       `json:"ends_on,omitempty"`
	Description    string           `json:"description,omitempty"`
	CreatedByID    int64            `json:"-"`
}

type ModifyOccurrenceRequest struct {
	ReservationID int64                     `json:"-"`
	StartTime     *time.Time                `json:"start_time,omitempty"`
	EndTime       *time.Time                `json:"end_time,omitempty"`
	Description   *string                   `json:"description,omitempty"`
	Status        *domain.ReservationStatus `json:"status,omitempty"`
	ActorID       int64                     `json:"-"`
}

// ExtendResult summarizes one series' horizon extension.
type ExtendResult struct {
	SeriesID int64 `json:"series_id"`
	Inserted int   `json:"inserted"`
	Dropped  int   `json:"dropped"`
}
