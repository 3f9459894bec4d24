package planner

import "github.com/globetrotter-app/globetrotter/internal/types"

// BuildItineraryView projects a trip and its ordered stops into the read
// model the itinerary page consumes. Stops are expected in display order.
func BuildItineraryView(trip types.Trip, stops []types.Stop) types.ItineraryView {
	view := types.ItineraryView{
		TripID:    trip.ID,
		TripName:  trip.Name,
		StartDate: trip.StartDate,
		EndDate:   trip.EndDate,
		TotalDays: Days(trip.StartDate, trip.EndDate),
		Status:    trip.Status,
		StopCount: len(stops),
		Stops:     make([]types.StopView, 0, len(stops)),
	}
	for _, s := range stops {
		activityCost := ActivityCost(s.Activities)
		activities := s.Activities
		if activities == nil {
			activities = []types.Activity{}
		}
		view.Stops = append(view.Stops, types.StopView{
			ID:             s.ID,
			CityName:       s.CityName,
			Country:        s.Country,
			StartDate:      s.StartDate,
			EndDate:        s.EndDate,
			Days:           Days(s.StartDate, s.EndDate),
			OrderIndex:     s.OrderIndex,
			Budget:         s.Budget,
			ActivityCost:   activityCost,
			EstimatedTotal: s.Budget + activityCost,
			ActivityCount:  len(s.Activities),
			Notes:          s.Notes,
			Activities:     activities,
		})
		view.ActivityCount += len(s.Activities)
		view.TotalBudget += s.Budget
		view.EstimatedSpend += s.Budget + activityCost
	}
	return view
}
