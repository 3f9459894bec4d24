package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/globetrotter-app/globetrotter/app/observability/metrics"
	"github.com/globetrotter-app/globetrotter/internal/api/trip"
	"github.com/globetrotter-app/globetrotter/internal/planner"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// Ensure implementation satisfies the interface
var _ ItineraryService = (*ItineraryServiceImpl)(nil)

// ItineraryService defines the business logic contract for itinerary
// operations: stops, activities, ordering and the view projection. Every
// operation verifies trip ownership first.
type ItineraryService interface {
	GetItinerary(ctx context.Context, userID, tripID uuid.UUID) (*types.ItineraryView, error)

	AddStop(ctx context.Context, userID, tripID uuid.UUID, req types.CreateStopRequest) (*types.Stop, error)
	UpdateStop(ctx context.Context, userID, tripID, stopID uuid.UUID, req types.UpdateStopRequest) (*types.Stop, error)
	DeleteStop(ctx context.Context, userID, tripID, stopID uuid.UUID) error

	// MoveStop relocates a stop by position. Out-of-range indices are a
	// no-op, not an error.
	MoveStop(ctx context.Context, userID, tripID uuid.UUID, from, to int) ([]types.Stop, error)

	// SaveOrder persists a full reordering in one transaction. stopIDs must
	// name every stop of the trip exactly once.
	SaveOrder(ctx context.Context, userID, tripID uuid.UUID, stopIDs []uuid.UUID) error

	AddActivity(ctx context.Context, userID, tripID, stopID uuid.UUID, req types.CreateActivityRequest) (*types.Activity, error)
	UpdateActivity(ctx context.Context, userID, tripID, stopID, activityID uuid.UUID, req types.UpdateActivityRequest) (*types.Activity, error)
	DeleteActivity(ctx context.Context, userID, tripID, stopID, activityID uuid.UUID) error
}

// ItineraryServiceImpl provides the implementation for ItineraryService.
type ItineraryServiceImpl struct {
	logger   *slog.Logger
	repo     ItineraryRepo
	tripRepo trip.TripRepo
}

// NewItineraryService creates a new itinerary service instance.
func NewItineraryService(repo ItineraryRepo, tripRepo trip.TripRepo, logger *slog.Logger) *ItineraryServiceImpl {
	return &ItineraryServiceImpl{
		logger:   logger,
		repo:     repo,
		tripRepo: tripRepo,
	}
}

// ownedTrip resolves the trip and enforces ownership in one lookup.
func (s *ItineraryServiceImpl) ownedTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	t, err := s.tripRepo.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("error fetching trip: %w", err)
	}
	return t, nil
}

func (s *ItineraryServiceImpl) GetItinerary(ctx context.Context, userID, tripID uuid.UUID) (*types.ItineraryView, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItinerary", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetItinerary"), slog.String("tripID", tripID.String()))

	t, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	stops, err := s.repo.ListStops(ctx, tripID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list stops", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list stops")
		return nil, fmt.Errorf("error listing stops: %w", err)
	}

	view := planner.BuildItineraryView(*t, stops)
	l.DebugContext(ctx, "Itinerary built", slog.Int("stops", view.StopCount))
	span.SetStatus(codes.Ok, "Itinerary built")
	return &view, nil
}

func validStopDates(start, end string) error {
	s, err := time.Parse(types.DateLayout, start)
	if err != nil {
		return fmt.Errorf("invalid start_date %q: %w", start, types.ErrValidation)
	}
	e, err := time.Parse(types.DateLayout, end)
	if err != nil {
		return fmt.Errorf("invalid end_date %q: %w", end, types.ErrValidation)
	}
	if e.Before(s) {
		return fmt.Errorf("end_date before start_date: %w", types.ErrValidation)
	}
	return nil
}

func (s *ItineraryServiceImpl) AddStop(ctx context.Context, userID, tripID uuid.UUID, req types.CreateStopRequest) (*types.Stop, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "AddStop", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AddStop"), slog.String("tripID", tripID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if req.CityName == "" {
		return nil, fmt.Errorf("city name is required: %w", types.ErrValidation)
	}
	if err := validStopDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if req.Budget < 0 {
		return nil, fmt.Errorf("budget cannot be negative: %w", types.ErrValidation)
	}

	stops, err := s.repo.ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error listing stops: %w", err)
	}

	stop := &types.Stop{
		TripID:     tripID,
		CityID:     req.CityID,
		CityName:   req.CityName,
		Country:    req.Country,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		OrderIndex: planner.NextOrderIndex(stops),
		Budget:     req.Budget,
		Notes:      req.Notes,
	}
	if err := s.repo.CreateStop(ctx, stop); err != nil {
		l.ErrorContext(ctx, "Failed to create stop", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create stop")
		return nil, fmt.Errorf("error creating stop: %w", err)
	}
	stop.Activities = []types.Activity{}

	l.InfoContext(ctx, "Stop added", slog.String("stopID", stop.ID.String()), slog.Int("orderIndex", stop.OrderIndex))
	span.SetStatus(codes.Ok, "Stop added")
	return stop, nil
}

func (s *ItineraryServiceImpl) UpdateStop(ctx context.Context, userID, tripID, stopID uuid.UUID, req types.UpdateStopRequest) (*types.Stop, error) {
	l := s.logger.With(slog.String("method", "UpdateStop"), slog.String("stopID", stopID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	stop, err := s.repo.GetStop(ctx, tripID, stopID)
	if err != nil {
		return nil, fmt.Errorf("error fetching stop: %w", err)
	}

	if req.CityID != nil {
		stop.CityID = req.CityID
	}
	if req.CityName != nil {
		if *req.CityName == "" {
			return nil, fmt.Errorf("city name cannot be empty: %w", types.ErrValidation)
		}
		stop.CityName = *req.CityName
	}
	if req.Country != nil {
		stop.Country = *req.Country
	}
	if req.StartDate != nil {
		stop.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		stop.EndDate = *req.EndDate
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := validStopDates(stop.StartDate, stop.EndDate); err != nil {
			return nil, err
		}
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return nil, fmt.Errorf("budget cannot be negative: %w", types.ErrValidation)
		}
		stop.Budget = *req.Budget
	}
	if req.Notes != nil {
		stop.Notes = *req.Notes
	}

	if err := s.repo.UpdateStop(ctx, stop); err != nil {
		l.ErrorContext(ctx, "Failed to update stop", slog.Any("error", err))
		return nil, fmt.Errorf("error updating stop: %w", err)
	}
	l.InfoContext(ctx, "Stop updated")
	return stop, nil
}

func (s *ItineraryServiceImpl) DeleteStop(ctx context.Context, userID, tripID, stopID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeleteStop"), slog.String("stopID", stopID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}
	// Survivors keep their order_index; gaps are fine until the next save.
	if err := s.repo.DeleteStop(ctx, tripID, stopID); err != nil {
		l.ErrorContext(ctx, "Failed to delete stop", slog.Any("error", err))
		return fmt.Errorf("error deleting stop: %w", err)
	}
	l.InfoContext(ctx, "Stop deleted")
	return nil
}

func (s *ItineraryServiceImpl) MoveStop(ctx context.Context, userID, tripID uuid.UUID, from, to int) ([]types.Stop, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "MoveStop", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("from", from),
		attribute.Int("to", to),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "MoveStop"), slog.String("tripID", tripID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	stops, err := s.repo.ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error listing stops: %w", err)
	}

	moved := planner.Move(stops, from, to)
	n := len(moved)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		l.DebugContext(ctx, "Move out of range or trivial, keeping order", slog.Int("stops", n))
		span.SetStatus(codes.Ok, "No-op move")
		return stops, nil
	}

	ids := make([]uuid.UUID, n)
	for i, st := range moved {
		ids[i] = st.ID
	}
	if err := s.repo.SaveStopOrder(ctx, tripID, ids); err != nil {
		l.ErrorContext(ctx, "Failed to persist stop order", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist stop order")
		return nil, fmt.Errorf("error saving stop order: %w", err)
	}

	metrics.Get().StopsReorderedTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Stop moved", slog.Int("from", from), slog.Int("to", to))
	span.SetStatus(codes.Ok, "Stop moved")
	return planner.Renumber(moved), nil
}

func (s *ItineraryServiceImpl) SaveOrder(ctx context.Context, userID, tripID uuid.UUID, stopIDs []uuid.UUID) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "SaveOrder", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SaveOrder"), slog.String("tripID", tripID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}
	stops, err := s.repo.ListStops(ctx, tripID)
	if err != nil {
		return fmt.Errorf("error listing stops: %w", err)
	}

	if len(stopIDs) != len(stops) {
		return fmt.Errorf("ordering names %d stops, trip has %d: %w", len(stopIDs), len(stops), types.ErrValidation)
	}
	known := make(map[uuid.UUID]struct{}, len(stops))
	for _, st := range stops {
		known[st.ID] = struct{}{}
	}
	for _, id := range stopIDs {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("stop %s does not belong to trip: %w", id, types.ErrValidation)
		}
		delete(known, id)
	}

	if err := s.repo.SaveStopOrder(ctx, tripID, stopIDs); err != nil {
		l.ErrorContext(ctx, "Failed to save stop order", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save stop order")
		return fmt.Errorf("error saving stop order: %w", err)
	}

	metrics.Get().StopsReorderedTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Stop order saved", slog.Int("stops", len(stopIDs)))
	span.SetStatus(codes.Ok, "Stop order saved")
	return nil
}

func (s *ItineraryServiceImpl) AddActivity(ctx context.Context, userID, tripID, stopID uuid.UUID, req types.CreateActivityRequest) (*types.Activity, error) {
	l := s.logger.With(slog.String("method", "AddActivity"), slog.String("stopID", stopID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStop(ctx, tripID, stopID); err != nil {
		return nil, fmt.Errorf("error fetching stop: %w", err)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("activity name is required: %w", types.ErrValidation)
	}
	if !types.ValidActivityCategory(req.Category) {
		return nil, fmt.Errorf("invalid activity category %q: %w", req.Category, types.ErrValidation)
	}
	if req.Cost < 0 {
		return nil, fmt.Errorf("cost cannot be negative: %w", types.ErrValidation)
	}

	activity := &types.Activity{
		StopID:       stopID,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Cost:         req.Cost,
		Currency:     req.Currency,
		ActivityDate: req.ActivityDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		IsBooked:     req.IsBooked,
	}
	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		l.ErrorContext(ctx, "Failed to create activity", slog.Any("error", err))
		return nil, fmt.Errorf("error creating activity: %w", err)
	}
	l.InfoContext(ctx, "Activity added", slog.String("activityID", activity.ID.String()))
	return activity, nil
}

func (s *ItineraryServiceImpl) UpdateActivity(ctx context.Context, userID, tripID, stopID, activityID uuid.UUID, req types.UpdateActivityRequest) (*types.Activity, error) {
	l := s.logger.With(slog.String("method", "UpdateActivity"), slog.String("activityID", activityID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	activity, err := s.repo.GetActivity(ctx, stopID, activityID)
	if err != nil {
		return nil, fmt.Errorf("error fetching activity: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("activity name cannot be empty: %w", types.ErrValidation)
		}
		activity.Name = *req.Name
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Category != nil {
		if !types.ValidActivityCategory(*req.Category) {
			return nil, fmt.Errorf("invalid activity category %q: %w", *req.Category, types.ErrValidation)
		}
		activity.Category = *req.Category
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			return nil, fmt.Errorf("cost cannot be negative: %w", types.ErrValidation)
		}
		activity.Cost = *req.Cost
	}
	if req.Currency != nil {
		activity.Currency = *req.Currency
	}
	if req.ActivityDate != nil {
		activity.ActivityDate = req.ActivityDate
	}
	if req.StartTime != nil {
		activity.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		activity.EndTime = req.EndTime
	}
	if req.Location != nil {
		activity.Location = *req.Location
	}
	if req.IsBooked != nil {
		activity.IsBooked = *req.IsBooked
	}

	if err := s.repo.UpdateActivity(ctx, activity); err != nil {
		l.ErrorContext(ctx, "Failed to update activity", slog.Any("error", err))
		return nil, fmt.Errorf("error updating activity: %w", err)
	}
	l.InfoContext(ctx, "Activity updated")
	return activity, nil
}

func (s *ItineraryServiceImpl) DeleteActivity(ctx context.Context, userID, tripID, stopID, activityID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeleteActivity"), slog.String("activityID", activityID.String()))

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}
	if err := s.repo.DeleteActivity(ctx, stopID, activityID); err != nil {
		l.ErrorContext(ctx, "Failed to delete activity", slog.Any("error", err))
		return fmt.Errorf("error deleting activity: %w", err)
	}
	l.InfoContext(ctx, "Activity deleted")
	return nil
}
