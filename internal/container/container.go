package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/globetrotter-app/globetrotter/app/db"
	"github.com/globetrotter-app/globetrotter/config"
	"github.com/globetrotter-app/globetrotter/internal/api/assistant"
	"github.com/globetrotter-app/globetrotter/internal/api/auth"
	"github.com/globetrotter-app/globetrotter/internal/api/calendar"
	"github.com/globetrotter-app/globetrotter/internal/api/city"
	"github.com/globetrotter-app/globetrotter/internal/api/itinerary"
	"github.com/globetrotter-app/globetrotter/internal/api/trip"
	"github.com/globetrotter-app/globetrotter/internal/api/user"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool

	AuthHandler      *auth.HandlerImpl
	TripHandler      *trip.HandlerImpl
	ItineraryHandler *itinerary.HandlerImpl
	CityHandler      *city.HandlerImpl
	CalendarHandler  *calendar.HandlerImpl
	UserHandler      *user.HandlerImpl
	AssistantHandler *assistant.HandlerImpl
}

// NewContainer initializes and returns a new dependency container.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewHandlerImpl(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	tripRepo := trip.NewPostgresTripRepo(pool, logger)
	tripService := trip.NewTripService(tripRepo, logger)
	tripHandler := trip.NewHandlerImpl(tripService, logger)

	itineraryRepo := itinerary.NewPostgresItineraryRepo(pool, logger)
	itineraryService := itinerary.NewItineraryService(itineraryRepo, tripRepo, logger)
	itineraryHandler := itinerary.NewHandlerImpl(itineraryService, logger)

	cityRepo := city.NewCityRepository(pool, logger)
	var placesClient city.PlacesClient
	if c := city.NewGooglePlacesClient(); c != nil {
		placesClient = c
	}
	cityService := city.NewCityService(cityRepo, placesClient, logger)
	cityHandler := city.NewHandlerImpl(cityService, logger)

	calendarService := calendar.NewCalendarService(tripRepo, itineraryRepo, logger)
	calendarHandler := calendar.NewHandlerImpl(calendarService, logger)

	// The assistant degrades instead of blocking startup when no key is set.
	var generator assistant.Generator
	geminiClient, err := assistant.NewGeminiClient(ctx)
	if err != nil {
		logger.Warn("Gemini client unavailable, assistant chat disabled", slog.Any("error", err))
		generator = assistant.DisabledGenerator{}
	} else {
		generator = geminiClient
	}
	chatRepo := assistant.NewPostgresChatRepo(pool, logger)
	assistantService := assistant.NewAssistantService(chatRepo, generator, logger)
	assistantHandler := assistant.NewHandlerImpl(assistantService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		AuthHandler:      authHandler,
		TripHandler:      tripHandler,
		ItineraryHandler: itineraryHandler,
		CityHandler:      cityHandler,
		CalendarHandler:  calendarHandler,
		UserHandler:      userHandler,
		AssistantHandler: assistantHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations.
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
