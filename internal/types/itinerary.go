package types

import "github.com/google/uuid"

// StopView is the presentation projection of a stop: day span, activity
// rollups and the estimated total (stop budget plus activity costs).
type StopView struct {
	ID             uuid.UUID  `json:"id"`
	CityName       string     `json:"city_name"`
	Country        string     `json:"country,omitempty"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	Days           int        `json:"days"`
	OrderIndex     int        `json:"order_index"`
	Budget         float64    `json:"budget"`
	ActivityCost   float64    `json:"activity_cost"`
	EstimatedTotal float64    `json:"estimated_total"`
	ActivityCount  int        `json:"activity_count"`
	Notes          string     `json:"notes,omitempty"`
	Activities     []Activity `json:"activities"`
}

// ItineraryView is the full read model for a trip's itinerary page.
// TotalBudget sums stop budgets only; activity spend is surfaced per stop
// and in EstimatedSpend.
type ItineraryView struct {
	TripID         uuid.UUID  `json:"trip_id"`
	TripName       string     `json:"trip_name"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	TotalDays      int        `json:"total_days"`
	Status         TripStatus `json:"status"`
	StopCount      int        `json:"stop_count"`
	ActivityCount  int        `json:"activity_count"`
	TotalBudget    float64    `json:"total_budget"`
	EstimatedSpend float64    `json:"estimated_spend"`
	Stops          []StopView `json:"stops"`
}
