package calendar

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

// MockTripRepo is a mock implementation of the trip.TripRepo interface
type MockTripRepo struct {
	mock.Mock
}

func (m *MockTripRepo) CreateTrip(ctx context.Context, trip *types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepo) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockTripRepo) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Trip), args.Error(1)
}

func (m *MockTripRepo) ListTripsInRange(ctx context.Context, userID uuid.UUID, from, to string) ([]types.Trip, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Trip), args.Error(1)
}

func (m *MockTripRepo) UpdateTrip(ctx context.Context, userID uuid.UUID, trip *types.Trip) error {
	args := m.Called(ctx, userID, trip)
	return args.Error(0)
}

func (m *MockTripRepo) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	args := m.Called(ctx, userID, tripID)
	return args.Error(0)
}

// MockItineraryRepo mocks only what the calendar needs; the remaining
// methods satisfy the interface.
type MockItineraryRepo struct {
	mock.Mock
}

func (m *MockItineraryRepo) ListStops(ctx context.Context, tripID uuid.UUID) ([]types.Stop, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Stop), args.Error(1)
}

func (m *MockItineraryRepo) GetStop(ctx context.Context, tripID, stopID uuid.UUID) (*types.Stop, error) {
	args := m.Called(ctx, tripID, stopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Stop), args.Error(1)
}

func (m *MockItineraryRepo) CreateStop(ctx context.Context, stop *types.Stop) error {
	return m.Called(ctx, stop).Error(0)
}

func (m *MockItineraryRepo) UpdateStop(ctx context.Context, stop *types.Stop) error {
	return m.Called(ctx, stop).Error(0)
}

func (m *MockItineraryRepo) DeleteStop(ctx context.Context, tripID, stopID uuid.UUID) error {
	return m.Called(ctx, tripID, stopID).Error(0)
}

func (m *MockItineraryRepo) SaveStopOrder(ctx context.Context, tripID uuid.UUID, stopIDs []uuid.UUID) error {
	return m.Called(ctx, tripID, stopIDs).Error(0)
}

func (m *MockItineraryRepo) CreateActivity(ctx context.Context, activity *types.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *MockItineraryRepo) UpdateActivity(ctx context.Context, activity *types.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *MockItineraryRepo) DeleteActivity(ctx context.Context, stopID, activityID uuid.UUID) error {
	return m.Called(ctx, stopID, activityID).Error(0)
}

func (m *MockItineraryRepo) GetActivity(ctx context.Context, stopID, activityID uuid.UUID) (*types.Activity, error) {
	args := m.Called(ctx, stopID, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Activity), args.Error(1)
}

func (m *MockItineraryRepo) ListStopsOnDay(ctx context.Context, userID uuid.UUID, day string) ([]types.Stop, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Stop), args.Error(1)
}

func TestGetMonth(t *testing.T) {
	logger := slog.Default()
	userID := uuid.New()

	t.Run("GridCoversPaddingDays", func(t *testing.T) {
		tripRepo := new(MockTripRepo)
		itinRepo := new(MockItineraryRepo)
		service := NewCalendarService(tripRepo, itinRepo, logger)
		ctx := context.Background()

		// March 2026 renders 2026-03-01 through 2026-04-04; the trip query
		// must span the whole visible grid.
		trip := types.Trip{
			ID: uuid.New(), Name: "Spring break",
			StartDate: "2026-03-10", EndDate: "2026-03-12",
			Status: types.TripStatusUpcoming,
		}
		tripRepo.On("ListTripsInRange", ctx, userID, "2026-03-01", "2026-04-04").
			Return([]types.Trip{trip}, nil).Once()

		grid, err := service.GetMonth(ctx, userID, 2026, 3)

		require.NoError(t, err)
		assert.Equal(t, 2026, grid.Year)
		assert.Len(t, grid.Weeks, 5)
		tripRepo.AssertExpectations(t)
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		service := NewCalendarService(new(MockTripRepo), new(MockItineraryRepo), logger)
		_, err := service.GetMonth(context.Background(), userID, 2026, 13)
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}

func TestGetDay(t *testing.T) {
	logger := slog.Default()
	userID := uuid.New()

	t.Run("SumsStopBudgets", func(t *testing.T) {
		tripRepo := new(MockTripRepo)
		itinRepo := new(MockItineraryRepo)
		service := NewCalendarService(tripRepo, itinRepo, logger)
		ctx := context.Background()

		day := "2026-03-04"
		trip := types.Trip{ID: uuid.New(), Name: "Iberia loop", StartDate: "2026-03-01", EndDate: "2026-03-10"}
		stops := []types.Stop{
			{CityName: "Madrid", StartDate: "2026-03-01", EndDate: "2026-03-04", Budget: 800},
			{CityName: "Lisbon", StartDate: "2026-03-04", EndDate: "2026-03-10", Budget: 600},
		}
		tripRepo.On("ListTripsInRange", ctx, userID, day, day).Return([]types.Trip{trip}, nil).Once()
		itinRepo.On("ListStopsOnDay", ctx, userID, day).Return(stops, nil).Once()

		detail, err := service.GetDay(ctx, userID, day)

		require.NoError(t, err)
		assert.Len(t, detail.Trips, 1)
		assert.Equal(t, 2, detail.StopCount)
		assert.Equal(t, 1400.0, detail.TotalBudget)
		tripRepo.AssertExpectations(t)
		itinRepo.AssertExpectations(t)
	})

	t.Run("MalformedDate", func(t *testing.T) {
		service := NewCalendarService(new(MockTripRepo), new(MockItineraryRepo), logger)
		_, err := service.GetDay(context.Background(), userID, "soon")
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}
