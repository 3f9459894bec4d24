package planner

import (
	"time"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

// MonthGrid builds a Sunday-aligned calendar for the given month: complete
// weeks from the Sunday on or before the 1st through the Saturday on or
// after the last day, with each trip attached to every day it covers.
func MonthGrid(year int, month time.Month, trips []types.Trip) types.CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	grid := types.CalendarMonth{Year: year, Month: int(month)}
	var week []types.CalendarDay
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		day := types.CalendarDay{
			Date:    d.Format(types.DateLayout),
			Day:     d.Day(),
			InMonth: d.Month() == month,
			Trips:   TripsOnDay(d.Format(types.DateLayout), trips),
		}
		week = append(week, day)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	return grid
}

// TripsOnDay returns slim references to the trips whose range covers day.
func TripsOnDay(day string, trips []types.Trip) []types.CalendarTripRef {
	refs := []types.CalendarTripRef{}
	for _, t := range trips {
		if Contains(day, t.StartDate, t.EndDate) {
			refs = append(refs, types.CalendarTripRef{
				ID:        t.ID,
				Name:      t.Name,
				StartDate: t.StartDate,
				EndDate:   t.EndDate,
				Status:    t.Status,
			})
		}
	}
	return refs
}

// DayDetail expands one selected day: trips covering it and the summed
// budget of the stops active on that day.
func DayDetail(day string, trips []types.Trip, stops []types.Stop) types.CalendarDayDetail {
	detail := types.CalendarDayDetail{
		Date:  day,
		Trips: TripsOnDay(day, trips),
	}
	for _, s := range stops {
		if Contains(day, s.StartDate, s.EndDate) {
			detail.StopCount++
			detail.TotalBudget += s.Budget
		}
	}
	return detail
}
