package types

import (
	"time"

	"github.com/google/uuid"
)

type ActivityCategory string

const (
	CategorySightseeing   ActivityCategory = "sightseeing"
	CategoryFood          ActivityCategory = "food"
	CategoryTransport     ActivityCategory = "transport"
	CategoryAccommodation ActivityCategory = "accommodation"
	CategoryAdventure     ActivityCategory = "adventure"
	CategoryShopping      ActivityCategory = "shopping"
	CategoryEntertainment ActivityCategory = "entertainment"
	CategoryOther         ActivityCategory = "other"
)

func ValidActivityCategory(c ActivityCategory) bool {
	switch c {
	case CategorySightseeing, CategoryFood, CategoryTransport, CategoryAccommodation,
		CategoryAdventure, CategoryShopping, CategoryEntertainment, CategoryOther:
		return true
	}
	return false
}

// Activity is a planned item inside a stop. Cost feeds the stop's estimated
// total but never the trip total.
type Activity struct {
	ID           uuid.UUID        `json:"id"`
	StopID       uuid.UUID        `json:"stop_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Category     ActivityCategory `json:"category"`
	Cost         float64          `json:"cost"`
	Currency     string           `json:"currency,omitempty"`
	ActivityDate *string          `json:"activity_date,omitempty"`
	StartTime    *string          `json:"start_time,omitempty"`
	EndTime      *string          `json:"end_time,omitempty"`
	Location     string           `json:"location,omitempty"`
	IsBooked     bool             `json:"is_booked"`
	OrderIndex   int              `json:"order_index"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type CreateActivityRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Category     ActivityCategory `json:"category"`
	Cost         float64          `json:"cost,omitempty"`
	Currency     string           `json:"currency,omitempty"`
	ActivityDate *string          `json:"activity_date,omitempty"`
	StartTime    *string          `json:"start_time,omitempty"`
	EndTime      *string          `json:"end_time,omitempty"`
	Location     string           `json:"location,omitempty"`
	IsBooked     bool             `json:"is_booked,omitempty"`
}

type UpdateActivityRequest struct {
	Name         *string           `json:"name,omitempty"`
	Description  *string           `json:"description,omitempty"`
	Category     *ActivityCategory `json:"category,omitempty"`
	Cost         *float64          `json:"cost,omitempty"`
	Currency     *string           `json:"currency,omitempty"`
	ActivityDate *string           `json:"activity_date,omitempty"`
	StartTime    *string           `json:"start_time,omitempty"`
	EndTime      *string           `json:"end_time,omitempty"`
	Location     *string           `json:"location,omitempty"`
	IsBooked     *bool             `json:"is_booked,omitempty"`
}
