package planner

import "github.com/globetrotter-app/globetrotter/internal/types"

// ActivityCost sums the costs of a stop's activities.
func ActivityCost(activities []types.Activity) float64 {
	var total float64
	for _, a := range activities {
		total += a.Cost
	}
	return total
}

// StopTotal is the estimated spend for one stop: its own budget plus every
// activity cost.
func StopTotal(s types.Stop) float64 {
	return s.Budget + ActivityCost(s.Activities)
}

// TripTotal sums stop budgets only. Activity costs are deliberately excluded
// here; they show up per stop via StopTotal and in the itinerary view's
// estimated spend instead.
func TripTotal(stops []types.Stop) float64 {
	var total float64
	for _, s := range stops {
		total += s.Budget
	}
	return total
}

// EstimatedSpend sums StopTotal across all stops.
func EstimatedSpend(stops []types.Stop) float64 {
	var total float64
	for _, s := range stops {
		total += StopTotal(s)
	}
	return total
}
