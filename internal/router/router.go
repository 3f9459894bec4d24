package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/globetrotter-app/globetrotter/internal/api/assistant"
	"github.com/globetrotter-app/globetrotter/internal/api/auth"
	"github.com/globetrotter-app/globetrotter/internal/api/calendar"
	"github.com/globetrotter-app/globetrotter/internal/api/city"
	"github.com/globetrotter-app/globetrotter/internal/api/itinerary"
	"github.com/globetrotter-app/globetrotter/internal/api/trip"
	"github.com/globetrotter-app/globetrotter/internal/api/user"
)

// Config contains the handler set and middleware needed for the router setup.
type Config struct {
	AuthHandler      auth.Handler
	TripHandler      trip.Handler
	ItineraryHandler itinerary.Handler
	CityHandler      city.Handler
	CalendarHandler  calendar.Handler
	UserHandler      user.Handler
	AssistantHandler assistant.Handler

	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowOrigins           []string
}

// SetupRouter initializes the main application router. Server-wide
// middleware (requestID, logger, recoverer) is applied before mounting
// this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes, rate limited per IP to slow credential stuffing.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(20, 1*time.Minute))
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.Refresh)
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Put("/auth/password", cfg.AuthHandler.ChangePassword)
			// Kept for clients that probe the session before loading the profile page.
			r.Get("/auth/me", cfg.UserHandler.GetUserProfile)

			r.Get("/user/profile", cfg.UserHandler.GetUserProfile)
			r.Put("/user/profile", cfg.UserHandler.UpdateUserProfile)

			r.Route("/trips", func(r chi.Router) {
				r.Get("/", cfg.TripHandler.ListTrips)
				r.Post("/", cfg.TripHandler.CreateTrip)

				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", cfg.TripHandler.GetTrip)
					r.Put("/", cfg.TripHandler.UpdateTrip)
					r.Delete("/", cfg.TripHandler.DeleteTrip)

					r.Get("/itinerary", cfg.ItineraryHandler.GetItinerary)

					r.Route("/stops", func(r chi.Router) {
						r.Post("/", cfg.ItineraryHandler.AddStop)
						r.Post("/move", cfg.ItineraryHandler.MoveStop)
						r.Put("/order", cfg.ItineraryHandler.SaveOrder)

						r.Route("/{stopID}", func(r chi.Router) {
							r.Put("/", cfg.ItineraryHandler.UpdateStop)
							r.Delete("/", cfg.ItineraryHandler.DeleteStop)

							r.Post("/activities", cfg.ItineraryHandler.AddActivity)
							r.Put("/activities/{activityID}", cfg.ItineraryHandler.UpdateActivity)
							r.Delete("/activities/{activityID}", cfg.ItineraryHandler.DeleteActivity)
						})
					})
				})
			})

			r.Route("/cities", func(r chi.Router) {
				r.Get("/", cfg.CityHandler.SearchCities)
				r.Get("/autocomplete", cfg.CityHandler.Autocomplete)
				r.Get("/{cityID}", cfg.CityHandler.GetCity)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/day", cfg.CalendarHandler.GetDay)
				r.Get("/{year}/{month}", cfg.CalendarHandler.GetMonth)
			})

			r.Route("/assistant", func(r chi.Router) {
				r.Post("/chat", cfg.AssistantHandler.Chat)
				r.Get("/history", cfg.AssistantHandler.History)
				r.Delete("/history", cfg.AssistantHandler.ClearHistory)
			})
		})
	})

	return r
}
