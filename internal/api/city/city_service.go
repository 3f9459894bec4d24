package city

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/globetrotter-app/globetrotter/app/observability/metrics"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// Ensure implementation satisfies the interface
var _ CityService = (*CityServiceImpl)(nil)

// CityService defines the business logic contract for destination search.
type CityService interface {
	SearchCities(ctx context.Context, params types.CitySearchParams) ([]types.City, error)
	GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error)

	// Autocomplete serves prefix suggestions, cached per normalized prefix.
	Autocomplete(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error)
}

// CityServiceImpl provides the implementation for CityService.
type CityServiceImpl struct {
	logger *slog.Logger
	repo   CityRepository
	places PlacesClient
	cache  *cache.Cache
}

// NewCityService creates a new city service instance. Autocomplete results
// are cached for five minutes; the catalogue is mostly static. places may be
// nil, in which case suggestions come from the city table alone.
func NewCityService(repo CityRepository, places PlacesClient, logger *slog.Logger) *CityServiceImpl {
	return &CityServiceImpl{
		logger: logger,
		repo:   repo,
		places: places,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *CityServiceImpl) SearchCities(ctx context.Context, params types.CitySearchParams) ([]types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "SearchCities", trace.WithAttributes(
		attribute.String("query", params.Query),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchCities"), slog.String("query", params.Query))

	metrics.Get().CitySearchesTotal.Add(ctx, 1)
	cities, err := s.repo.SearchCities(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to search cities")
		return nil, fmt.Errorf("error searching cities: %w", err)
	}

	l.DebugContext(ctx, "City search completed", slog.Int("count", len(cities)))
	span.SetStatus(codes.Ok, "City search completed")
	return cities, nil
}

func (s *CityServiceImpl) GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error) {
	l := s.logger.With(slog.String("method", "GetCity"), slog.String("cityID", cityID.String()))
	city, err := s.repo.GetCity(ctx, cityID)
	if err != nil {
		l.WarnContext(ctx, "Failed to fetch city", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching city: %w", err)
	}
	return city, nil
}

func (s *CityServiceImpl) Autocomplete(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error) {
	l := s.logger.With(slog.String("method", "Autocomplete"))

	prefix = strings.TrimSpace(prefix)
	if len(prefix) < 2 {
		// One-character prefixes churn the cache and return junk anyway.
		return []types.CitySuggestion{}, nil
	}

	key := fmt.Sprintf("%s|%d", strings.ToLower(prefix), limit)
	if cached, found := s.cache.Get(key); found {
		metrics.Get().CityCacheHitsTotal.Add(ctx, 1)
		return cached.([]types.CitySuggestion), nil
	}

	var suggestions []types.CitySuggestion
	if s.places != nil {
		external, err := s.places.SuggestPlaces(ctx, prefix, limit)
		if err != nil {
			// External lookups are best effort; the city table backs them up.
			l.WarnContext(ctx, "Places lookup failed, falling back to database", slog.Any("error", err))
		} else {
			suggestions = external
		}
	}
	if suggestions == nil {
		var err error
		suggestions, err = s.repo.SuggestCities(ctx, prefix, limit)
		if err != nil {
			l.ErrorContext(ctx, "Failed to fetch suggestions", slog.Any("error", err))
			return nil, fmt.Errorf("error fetching suggestions: %w", err)
		}
	}

	s.cache.Set(key, suggestions, cache.DefaultExpiration)
	return suggestions, nil
}
