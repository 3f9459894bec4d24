package trip

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/globetrotter-app/globetrotter/internal/api"
	"github.com/globetrotter-app/globetrotter/internal/api/auth"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateTrip(w http.ResponseWriter, r *http.Request)
	GetTrip(w http.ResponseWriter, r *http.Request)
	ListTrips(w http.ResponseWriter, r *http.Request)
	UpdateTrip(w http.ResponseWriter, r *http.Request)
	DeleteTrip(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	tripService TripService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new trip HandlerImpl instance.
func NewHandlerImpl(tripService TripService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		tripService: tripService,
		logger:      logger,
	}
}

// requestIDs pulls the authenticated user ID and the tripID route param.
func requestIDs(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, uuid.UUID, bool) {
	ctx := r.Context()
	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		l.WarnContext(ctx, "Invalid trip ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tripID, true
}

func userIDFromRequest(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	ctx := r.Context()
	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

// CreateTrip godoc
// @Summary      Create a trip
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips [post]
func (h *HandlerImpl) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateTrip"))

	userID, ok := userIDFromRequest(w, r, l)
	if !ok {
		return
	}

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := h.tripService.CreateTrip(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create trip")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// GetTrip godoc
// @Summary      Get a trip by ID
// @Tags         Trips
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID} [get]
func (h *HandlerImpl) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTrip"))

	userID, tripID, ok := requestIDs(w, r, l)
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(ctx, userID, tripID)
	if err != nil {
		l.WarnContext(ctx, "Failed to get trip", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve trip")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// ListTrips godoc
// @Summary      List the authenticated user's trips
// @Tags         Trips
// @Produce      json
// @Security     BearerAuth
// @Router       /trips [get]
func (h *HandlerImpl) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListTrips"))

	userID, ok := userIDFromRequest(w, r, l)
	if !ok {
		return
	}

	trips, err := h.tripService.ListTrips(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// UpdateTrip godoc
// @Summary      Update a trip
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID} [put]
func (h *HandlerImpl) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateTrip"))

	userID, tripID, ok := requestIDs(w, r, l)
	if !ok {
		return
	}

	var req types.UpdateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := h.tripService.UpdateTrip(ctx, userID, tripID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update trip")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// DeleteTrip godoc
// @Summary      Delete a trip and everything under it
// @Tags         Trips
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID} [delete]
func (h *HandlerImpl) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteTrip"))

	userID, tripID, ok := requestIDs(w, r, l)
	if !ok {
		return
	}

	if err := h.tripService.DeleteTrip(ctx, userID, tripID); err != nil {
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete trip")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Trip deleted successfully",
	})
}
