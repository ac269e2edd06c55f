package booking

import (
	"time"

	"venuebook/internal/domain"
)

type CreateReservationRequest struct {
	SpaceID     int64     `json:"space_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Description string    `json:"description,omitempty"`
	UserID      int64     `json:"user_id,omitempty"`
	CreatedByID int64     `json:"-"`
}

type ModifyReservationRequest struct {
	ReservationID int64                     `json:"-"`
	StartTime     *time.Time                `json:"start_time,omitempty"`
	EndTime       *time.Time                `json:"end_time,omitempty"`
	Description   *string                   `json:"description,omitempty"`
	Status        *domain.ReservationStatus `json:"status,omitempty"`
	ActorID       int64                     `json:"-"`
}
