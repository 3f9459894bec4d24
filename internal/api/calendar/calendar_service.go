package calendar

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

	"github.com/globetrotter-app/globetrotter/internal/api/itinerary"
	"github.com/globetrotter-app/globetrotter/internal/api/trip"
	"github.com/globetrotter-app/globetrotter/internal/planner"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// Ensure implementation satisfies the interface
var _ CalendarService = (*CalendarServiceImpl)(nil)

// CalendarService projects a user's trips onto month and day views.
type CalendarService interface {
	// GetMonth builds the Sunday-aligned grid for the given month with the
	// user's trips attached to every day they cover.
	GetMonth(ctx context.Context, userID uuid.UUID, year, month int) (*types.CalendarMonth, error)

	// GetDay expands one day: trips covering it plus the summed budget of
	// the stops active that day.
	GetDay(ctx context.Context, userID uuid.UUID, day string) (*types.CalendarDayDetail, error)
}

// CalendarServiceImpl provides the implementation for CalendarService.
type CalendarServiceImpl struct {
	logger        *slog.Logger
	tripRepo      trip.TripRepo
	itineraryRepo itinerary.ItineraryRepo
}

// NewCalendarService creates a new calendar service instance.
func NewCalendarService(tripRepo trip.TripRepo, itineraryRepo itinerary.ItineraryRepo, logger *slog.Logger) *CalendarServiceImpl {
	return &CalendarServiceImpl{
		logger:        logger,
		tripRepo:      tripRepo,
		itineraryRepo: itineraryRepo,
	}
}

func (s *CalendarServiceImpl) GetMonth(ctx context.Context, userID uuid.UUID, year, month int) (*types.CalendarMonth, error) {
	ctx, span := otel.Tracer("CalendarService").Start(ctx, "GetMonth", trace.WithAttributes(
		attribute.Int("year", year),
		attribute.Int("month", month),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetMonth"), slog.Int("year", year), slog.Int("month", month))

	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be 1-12: %w", types.ErrValidation)
	}
	if year < 1970 || year > 2200 {
		return nil, fmt.Errorf("year out of range: %w", types.ErrValidation)
	}

	// Fetch trips overlapping the visible grid, including the padding days
	// borrowed from the neighbouring months.
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	last := first.AddDate(0, 1, -1)
	gridEnd := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	trips, err := s.tripRepo.ListTripsInRange(ctx, userID,
		gridStart.Format(types.DateLayout), gridEnd.Format(types.DateLayout))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips for month", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips for month")
		return nil, fmt.Errorf("error listing trips: %w", err)
	}

	grid := planner.MonthGrid(year, time.Month(month), trips)
	l.DebugContext(ctx, "Calendar month built", slog.Int("trips", len(trips)), slog.Int("weeks", len(grid.Weeks)))
	span.SetStatus(codes.Ok, "Calendar month built")
	return &grid, nil
}

func (s *CalendarServiceImpl) GetDay(ctx context.Context, userID uuid.UUID, day string) (*types.CalendarDayDetail, error) {
	ctx, span := otel.Tracer("CalendarService").Start(ctx, "GetDay", trace.WithAttributes(
		attribute.String("day", day),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetDay"), slog.String("day", day))

	if _, err := time.Parse(types.DateLayout, day); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", day, types.ErrValidation)
	}

	trips, err := s.tripRepo.ListTripsInRange(ctx, userID, day, day)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips for day", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips for day")
		return nil, fmt.Errorf("error listing trips: %w", err)
	}
	stops, err := s.itineraryRepo.ListStopsOnDay(ctx, userID, day)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list stops for day", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list stops for day")
		return nil, fmt.Errorf("error listing stops: %w", err)
	}

	detail := planner.DayDetail(day, trips, stops)
	span.SetStatus(codes.Ok, "Calendar day built")
	return &detail, nil
}
