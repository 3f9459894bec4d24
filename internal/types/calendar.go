package types

import "github.com/google/uuid"

// CalendarTripRef is the slim trip reference attached to calendar days.
type CalendarTripRef struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Status    TripStatus `json:"status"`
}

// CalendarDay is one cell of the month grid. InMonth is false for the
// leading and trailing padding days that complete the first and last weeks.
type CalendarDay struct {
	Date    string            `json:"date"`
	Day     int               `json:"day"`
	InMonth bool              `json:"in_month"`
	Trips   []CalendarTripRef `json:"trips"`
}

// CalendarMonth is a Sunday-aligned grid of complete weeks covering the
// requested month.
type CalendarMonth struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Weeks [][]CalendarDay `json:"weeks"`
}

// CalendarDayDetail expands a selected day: the trips covering it plus the
// summed budget of the stops active on that day.
type CalendarDayDetail struct {
	Date        string            `json:"date"`
	Trips       []CalendarTripRef `json:"trips"`
	StopCount   int               `json:"stop_count"`
	TotalBudget float64           `json:"total_budget"`
}
