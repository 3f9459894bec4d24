package city

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globetrotter-app/globetrotter/app/observability/metrics"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// MockCityRepository is a mock implementation of the CityRepository interface
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) SearchCities(ctx context.Context, params types.CitySearchParams) ([]types.City, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func (m *MockCityRepository) GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockCityRepository) SuggestCities(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CitySuggestion), args.Error(1)
}

// MockPlacesClient is a mock implementation of the PlacesClient interface
type MockPlacesClient struct {
	mock.Mock
}

func (m *MockPlacesClient) SuggestPlaces(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CitySuggestion), args.Error(1)
}

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	m.Run()
}

func TestAutocomplete(t *testing.T) {
	logger := slog.Default()

	t.Run("CachesRepeatedPrefix", func(t *testing.T) {
		mockRepo := new(MockCityRepository)
		service := NewCityService(mockRepo, nil, logger)
		ctx := context.Background()

		suggestions := []types.CitySuggestion{
			{ID: uuid.New(), Name: "Lisbon", Country: "Portugal"},
		}
		// Only one repo hit for two identical lookups.
		mockRepo.On("SuggestCities", ctx, "Lis", 8).Return(suggestions, nil).Once()

		first, err := service.Autocomplete(ctx, "Lis", 8)
		require.NoError(t, err)
		second, err := service.Autocomplete(ctx, "Lis", 8)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		mockRepo.AssertExpectations(t)
	})

	t.Run("CacheKeyIsCaseInsensitive", func(t *testing.T) {
		mockRepo := new(MockCityRepository)
		service := NewCityService(mockRepo, nil, logger)
		ctx := context.Background()

		mockRepo.On("SuggestCities", ctx, "lis", 8).
			Return([]types.CitySuggestion{{Name: "Lisbon"}}, nil).Once()

		_, err := service.Autocomplete(ctx, "lis", 8)
		require.NoError(t, err)
		_, err = service.Autocomplete(ctx, "LIS", 8)
		require.NoError(t, err)

		mockRepo.AssertNumberOfCalls(t, "SuggestCities", 1)
	})

	t.Run("PlacesClientPreferred", func(t *testing.T) {
		mockRepo := new(MockCityRepository)
		mockPlaces := new(MockPlacesClient)
		service := NewCityService(mockRepo, mockPlaces, logger)
		ctx := context.Background()

		mockPlaces.On("SuggestPlaces", ctx, "Kyo", 8).
			Return([]types.CitySuggestion{{Name: "Kyoto", Country: "Japan"}}, nil).Once()

		suggestions, err := service.Autocomplete(ctx, "Kyo", 8)

		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "Kyoto", suggestions[0].Name)
		mockRepo.AssertNotCalled(t, "SuggestCities")
	})

	t.Run("PlacesFailureFallsBackToDatabase", func(t *testing.T) {
		mockRepo := new(MockCityRepository)
		mockPlaces := new(MockPlacesClient)
		service := NewCityService(mockRepo, mockPlaces, logger)
		ctx := context.Background()

		mockPlaces.On("SuggestPlaces", ctx, "Kyo", 8).
			Return(nil, errors.New("quota exceeded")).Once()
		mockRepo.On("SuggestCities", ctx, "Kyo", 8).
			Return([]types.CitySuggestion{{Name: "Kyoto", Country: "Japan"}}, nil).Once()

		suggestions, err := service.Autocomplete(ctx, "Kyo", 8)

		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		mockRepo.AssertExpectations(t)
		mockPlaces.AssertExpectations(t)
	})

	t.Run("ShortPrefixSkipsLookup", func(t *testing.T) {
		mockRepo := new(MockCityRepository)
		service := NewCityService(mockRepo, nil, logger)

		suggestions, err := service.Autocomplete(context.Background(), "L", 8)

		require.NoError(t, err)
		assert.Empty(t, suggestions)
		mockRepo.AssertNotCalled(t, "SuggestCities")
	})
}

func TestSearchCities(t *testing.T) {
	mockRepo := new(MockCityRepository)
	service := NewCityService(mockRepo, nil, slog.Default())
	ctx := context.Background()

	params := types.CitySearchParams{Query: "tokyo", MaxCost: 4}
	mockRepo.On("SearchCities", ctx, params).
		Return([]types.City{{Name: "Tokyo", Country: "Japan"}}, nil).Once()

	cities, err := service.SearchCities(ctx, params)

	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Tokyo", cities[0].Name)
	mockRepo.AssertExpectations(t)
}

func TestGetCity(t *testing.T) {
	mockRepo := new(MockCityRepository)
	service := NewCityService(mockRepo, nil, slog.Default())
	ctx := context.Background()
	cityID := uuid.New()

	mockRepo.On("GetCity", ctx, cityID).Return(nil, types.ErrNotFound).Once()

	_, err := service.GetCity(ctx, cityID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
