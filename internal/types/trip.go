package types

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusUpcoming  TripStatus = "upcoming"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
)

// ValidTripStatus reports whether s is one of the accepted trip statuses.
func ValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusDraft, TripStatusUpcoming, TripStatusOngoing, TripStatusCompleted:
		return true
	}
	return false
}

// Trip is a user's travel plan. Dates are calendar dates in DateLayout form;
// the invariant start <= end is enforced at creation and update time.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Destination string     `json:"destination,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Status      TripStatus `json:"status"`
	IsPublic    bool       `json:"is_public"`
	TotalBudget *float64   `json:"total_budget,omitempty"`
	CoverPhoto  *string    `json:"cover_photo,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateTripRequest struct {
	Name        string     `json:"name"`
	Destination string     `json:"destination,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Status      TripStatus `json:"status,omitempty"`
	IsPublic    bool       `json:"is_public,omitempty"`
	TotalBudget *float64   `json:"total_budget,omitempty"`
	CoverPhoto  *string    `json:"cover_photo,omitempty"`
}

// UpdateTripRequest carries partial trip edits. Nil means "leave as is".
type UpdateTripRequest struct {
	Name        *string     `json:"name,omitempty"`
	Destination *string     `json:"destination,omitempty"`
	Description *string     `json:"description,omitempty"`
	StartDate   *string     `json:"start_date,omitempty"`
	EndDate     *string     `json:"end_date,omitempty"`
	Status      *TripStatus `json:"status,omitempty"`
	IsPublic    *bool       `json:"is_public,omitempty"`
	TotalBudget *float64    `json:"total_budget,omitempty"`
	CoverPhoto  *string     `json:"cover_photo,omitempty"`
}
