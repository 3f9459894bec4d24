package trip

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
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// Ensure implementation satisfies the interface
var _ TripService = (*TripServiceImpl)(nil)

// TripService defines the business logic contract for trip operations.
type TripService interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.UpdateTripRequest) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

// TripServiceImpl provides the implementation for TripService.
type TripServiceImpl struct {
	logger *slog.Logger
	repo   TripRepo
}

// NewTripService creates a new trip service instance.
func NewTripService(repo TripRepo, logger *slog.Logger) *TripServiceImpl {
	return &TripServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func validDateRange(start, end string) error {
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

func (s *TripServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Creating trip", slog.String("name", req.Name))

	if req.Name == "" {
		return nil, fmt.Errorf("trip name is required: %w", types.ErrValidation)
	}
	if err := validDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = types.TripStatusDraft
	}
	if !types.ValidTripStatus(status) {
		return nil, fmt.Errorf("invalid trip status %q: %w", status, types.ErrValidation)
	}

	trip := &types.Trip{
		UserID:      userID,
		Name:        req.Name,
		Destination: req.Destination,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      status,
		IsPublic:    req.IsPublic,
		TotalBudget: req.TotalBudget,
		CoverPhoto:  req.CoverPhoto,
	}
	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		return nil, fmt.Errorf("error creating trip: %w", err)
	}

	metrics.Get().TripsCreatedTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Trip created successfully", slog.String("tripID", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created successfully")
	return trip, nil
}

func (s *TripServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	l := s.logger.With(slog.String("method", "GetTrip"), slog.String("tripID", tripID.String()))
	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		l.WarnContext(ctx, "Failed to fetch trip", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching trip: %w", err)
	}
	return trip, nil
}

func (s *TripServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ListTrips"), slog.String("userID", userID.String()))
	trips, err := s.repo.ListTrips(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		return nil, fmt.Errorf("error listing trips: %w", err)
	}

	l.DebugContext(ctx, "Trips listed", slog.Int("count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *TripServiceImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.UpdateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateTrip"), slog.String("tripID", tripID.String()))

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("error fetching trip: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("trip name cannot be empty: %w", types.ErrValidation)
		}
		trip.Name = *req.Name
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}
	if req.StartDate != nil {
		trip.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = *req.EndDate
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := validDateRange(trip.StartDate, trip.EndDate); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if !types.ValidTripStatus(*req.Status) {
			return nil, fmt.Errorf("invalid trip status %q: %w", *req.Status, types.ErrValidation)
		}
		trip.Status = *req.Status
	}
	if req.IsPublic != nil {
		trip.IsPublic = *req.IsPublic
	}
	if req.TotalBudget != nil {
		trip.TotalBudget = req.TotalBudget
	}
	if req.CoverPhoto != nil {
		trip.CoverPhoto = req.CoverPhoto
	}

	if err := s.repo.UpdateTrip(ctx, userID, trip); err != nil {
		l.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update trip")
		return nil, fmt.Errorf("error updating trip: %w", err)
	}

	l.InfoContext(ctx, "Trip updated successfully")
	span.SetStatus(codes.Ok, "Trip updated successfully")
	return trip, nil
}

func (s *TripServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeleteTrip"), slog.String("tripID", tripID.String()))
	if err := s.repo.DeleteTrip(ctx, userID, tripID); err != nil {
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		return fmt.Errorf("error deleting trip: %w", err)
	}
	l.InfoContext(ctx, "Trip deleted")
	return nil
}
