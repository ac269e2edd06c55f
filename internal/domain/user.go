package domain

import "time"

type UserRole string

const (
	RoleMember     UserRole = "member"
	RoleVenueOwner UserRole = "venue_owner"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email" validate:"required,email"`
	PasswordHash   string    `json:"-"`
	Role           UserRole  `json:"role"`
	Name           string    `json:"name"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserTag is a label attached to a user within a venue, consumed by pricing
// rule conditions (e.g. "member", "staff", "student").
type UserTag struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	VenueID int64  `json:"venue_id"`
	Tag     string `json:"tag"`
}

// Organization groups users; recurring reservations are gated on the
// organization's plan allowing them. Membership management itself lives in an
// external service.
type Organization struct {
	ID                         int64     `json:"id"`
	Name                       string    `json:"name"`
	AllowsRecurringReservation bool      `json:"allows_recurring_reservation"`
	CreatedAt                  time.Time `json:"created_at"`
}
