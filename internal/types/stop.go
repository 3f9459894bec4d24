package types

import (
	"time"

	"github.com/google/uuid"
)

// Stop is one leg of a trip. OrderIndex is zero-based; the stored values may
// become sparse after deletions and are densified when an itinerary is saved.
type Stop struct {
	ID         uuid.UUID  `json:"id"`
	TripID     uuid.UUID  `json:"trip_id"`
	CityID     *uuid.UUID `json:"city_id,omitempty"`
	CityName   string     `json:"city_name"`
	Country    string     `json:"country,omitempty"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	OrderIndex int        `json:"order_index"`
	Budget     float64    `json:"budget"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Activities []Activity `json:"activities,omitempty"`
}

type CreateStopRequest struct {
	CityID    *uuid.UUID `json:"city_id,omitempty"`
	CityName  string     `json:"city_name"`
	Country   string     `json:"country,omitempty"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Budget    float64    `json:"budget,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

type UpdateStopRequest struct {
	CityID    *uuid.UUID `json:"city_id,omitempty"`
	CityName  *string    `json:"city_name,omitempty"`
	Country   *string    `json:"country,omitempty"`
	StartDate *string    `json:"start_date,omitempty"`
	EndDate   *string    `json:"end_date,omitempty"`
	Budget    *float64   `json:"budget,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// MoveStopRequest relocates the stop at From to position To within the trip's
// ordered stop list. Out-of-range indices leave the order unchanged.
type MoveStopRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// SaveItineraryRequest replaces the trip's stop ordering in one transaction.
// StopIDs lists every stop of the trip in its new position order.
type SaveItineraryRequest struct {
	StopIDs []uuid.UUID `json:"stop_ids"`
}
