package types

import (
	"time"

	"github.com/google/uuid"
)

// City is a curated destination record used for search and autocomplete.
// CostIndex ranges 1 (cheap) to 5 (expensive).
type City struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Continent   string    `json:"continent,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CostIndex   int       `json:"cost_index"`
	Popularity  int       `json:"popularity"`
	Timezone    string    `json:"timezone,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CitySuggestion is the trimmed autocomplete payload.
type CitySuggestion struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
}

type CitySearchParams struct {
	Query     string
	Country   string
	Continent string
	MaxCost   int
	Limit     int
	Offset    int
}
