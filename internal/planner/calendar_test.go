package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

func TestMonthGridMarch2026(t *testing.T) {
	// March 2026 starts on a Sunday and ends on a Tuesday, so the grid is
	// five full weeks with trailing April padding.
	grid := MonthGrid(2026, time.March, nil)

	assert.Equal(t, 2026, grid.Year)
	assert.Equal(t, 3, grid.Month)
	require.Len(t, grid.Weeks, 5)
	for _, week := range grid.Weeks {
		require.Len(t, week, 7)
	}

	assert.Equal(t, "2026-03-01", grid.Weeks[0][0].Date)
	assert.True(t, grid.Weeks[0][0].InMonth)
	assert.Equal(t, "2026-03-31", grid.Weeks[4][2].Date)
	assert.Equal(t, "2026-04-04", grid.Weeks[4][6].Date)
	assert.False(t, grid.Weeks[4][6].InMonth)
}

func TestMonthGridLeadingPadding(t *testing.T) {
	// May 2026 starts on a Friday: the first week opens with April days.
	grid := MonthGrid(2026, time.May, nil)

	require.NotEmpty(t, grid.Weeks)
	first := grid.Weeks[0]
	assert.Equal(t, "2026-04-26", first[0].Date)
	assert.False(t, first[0].InMonth)
	assert.Equal(t, "2026-05-01", first[5].Date)
	assert.True(t, first[5].InMonth)
}

func TestMonthGridAttachesTrips(t *testing.T) {
	trip := types.Trip{
		ID:        uuid.New(),
		Name:      "Spring break",
		StartDate: "2026-03-10",
		EndDate:   "2026-03-12",
		Status:    types.TripStatusUpcoming,
	}
	grid := MonthGrid(2026, time.March, []types.Trip{trip})

	covered := 0
	for _, week := range grid.Weeks {
		for _, day := range week {
			if len(day.Trips) > 0 {
				covered++
				assert.Equal(t, trip.ID, day.Trips[0].ID)
				assert.True(t, Contains(day.Date, trip.StartDate, trip.EndDate))
			}
		}
	}
	assert.Equal(t, 3, covered)
}

func TestTripsOnDay(t *testing.T) {
	a := types.Trip{ID: uuid.New(), Name: "A", StartDate: "2026-03-01", EndDate: "2026-03-05"}
	b := types.Trip{ID: uuid.New(), Name: "B", StartDate: "2026-03-05", EndDate: "2026-03-09"}
	trips := []types.Trip{a, b}

	assert.Len(t, TripsOnDay("2026-03-05", trips), 2, "boundary day belongs to both trips")
	assert.Len(t, TripsOnDay("2026-03-02", trips), 1)
	assert.Empty(t, TripsOnDay("2026-03-20", trips))

	// Draft trips with no dates never match.
	assert.Empty(t, TripsOnDay("2026-03-02", []types.Trip{{Name: "draft"}}))
}

func TestDayDetail(t *testing.T) {
	trip := types.Trip{ID: uuid.New(), Name: "A", StartDate: "2026-03-01", EndDate: "2026-03-10"}
	stops := []types.Stop{
		{CityName: "Madrid", StartDate: "2026-03-01", EndDate: "2026-03-04", Budget: 800},
		{CityName: "Lisbon", StartDate: "2026-03-04", EndDate: "2026-03-10", Budget: 600},
		{CityName: "Other trip", StartDate: "2026-06-01", EndDate: "2026-06-05", Budget: 999},
	}

	detail := DayDetail("2026-03-04", []types.Trip{trip}, stops)
	assert.Len(t, detail.Trips, 1)
	assert.Equal(t, 2, detail.StopCount, "handover day counts both stops")
	assert.Equal(t, 1400.0, detail.TotalBudget)

	empty := DayDetail("2026-07-01", []types.Trip{trip}, stops)
	assert.Empty(t, empty.Trips)
	assert.Equal(t, 0.0, empty.TotalBudget)
}
