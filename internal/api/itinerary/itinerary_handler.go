package itinerary

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
	GetItinerary(w http.ResponseWriter, r *http.Request)
	AddStop(w http.ResponseWriter, r *http.Request)
	UpdateStop(w http.ResponseWriter, r *http.Request)
	DeleteStop(w http.ResponseWriter, r *http.Request)
	MoveStop(w http.ResponseWriter, r *http.Request)
	SaveOrder(w http.ResponseWriter, r *http.Request)
	AddActivity(w http.ResponseWriter, r *http.Request)
	UpdateActivity(w http.ResponseWriter, r *http.Request)
	DeleteActivity(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	itineraryService ItineraryService
	logger           *slog.Logger
}

// NewHandlerImpl creates a new itinerary HandlerImpl instance.
func NewHandlerImpl(itineraryService ItineraryService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

// pathIDs parses the authenticated user plus the named uuid route params.
func (h *HandlerImpl) pathIDs(w http.ResponseWriter, r *http.Request, l *slog.Logger, params ...string) ([]uuid.UUID, bool) {
	ctx := r.Context()
	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return nil, false
	}
	ids := []uuid.UUID{userID}
	for _, p := range params {
		id, err := uuid.Parse(chi.URLParam(r, p))
		if err != nil {
			l.WarnContext(ctx, "Invalid route parameter", slog.String("param", p), slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid "+p+" format")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (h *HandlerImpl) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, types.ErrValidation):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// GetItinerary godoc
// @Summary      Get the full itinerary view for a trip
// @Tags         Itinerary
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/itinerary [get]
func (h *HandlerImpl) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetItinerary"))

	ids, ok := h.pathIDs(w, r, l, "tripID")
	if !ok {
		return
	}

	view, err := h.itineraryService.GetItinerary(ctx, ids[0], ids[1])
	if err != nil {
		l.ErrorContext(ctx, "Failed to build itinerary", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Trip not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, view)
}

// AddStop godoc
// @Summary      Append a stop to a trip
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops [post]
func (h *HandlerImpl) AddStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "AddStop"))

	ids, ok := h.pathIDs(w, r, l, "tripID")
	if !ok {
		return
	}

	var req types.CreateStopRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	stop, err := h.itineraryService.AddStop(ctx, ids[0], ids[1], req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to add stop", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Trip not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, stop)
}

// UpdateStop godoc
// @Summary      Update a stop
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops/{stopID} [put]
func (h *HandlerImpl) UpdateStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateStop"))

	ids, ok := h.pathIDs(w, r, l, "tripID", "stopID")
	if !ok {
		return
	}

	var req types.UpdateStopRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	stop, err := h.itineraryService.UpdateStop(ctx, ids[0], ids[1], ids[2], req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update stop", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Stop not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, stop)
}

// DeleteStop godoc
// @Summary      Delete a stop
// @Tags         Itinerary
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops/{stopID} [delete]
func (h *HandlerImpl) DeleteStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteStop"))

	ids, ok := h.pathIDs(w, r, l, "tripID", "stopID")
	if !ok {
		return
	}

	if err := h.itineraryService.DeleteStop(ctx, ids[0], ids[1], ids[2]); err != nil {
		l.ErrorContext(ctx, "Failed to delete stop", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Stop not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Stop deleted successfully",
	})
}

// MoveStop godoc
// @Summary      Move a stop to a new position
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops/move [post]
func (h *HandlerImpl) MoveStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "MoveStop"))

	ids, ok := h.pathIDs(w, r, l, "tripID")
	if !ok {
		return
	}

	var req types.MoveStopRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	stops, err := h.itineraryService.MoveStop(ctx, ids[0], ids[1], req.From, req.To)
	if err != nil {
		l.ErrorContext(ctx, "Failed to move stop", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Trip not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, stops)
}

// SaveOrder godoc
// @Summary      Save a full stop reordering atomically
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops/order [put]
func (h *HandlerImpl) SaveOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SaveOrder"))

	ids, ok := h.pathIDs(w, r, l, "tripID")
	if !ok {
		return
	}

	var req types.SaveItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.itineraryService.SaveOrder(ctx, ids[0], ids[1], req.StopIDs); err != nil {
		l.ErrorContext(ctx, "Failed to save stop order", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Trip not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Itinerary order saved",
	})
}

// AddActivity godoc
// @Summary      Add an activity to a stop
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops/{stopID}/activities [post]
func (h *HandlerImpl) AddActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "AddActivity"))

	ids, ok := h.pathIDs(w, r, l, "tripID", "stopID")
	if !ok {
		return
	}

	var req types.CreateActivityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	activity, err := h.itineraryService.AddActivity(ctx, ids[0], ids[1], ids[2], req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to add activity", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Stop not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, activity)
}

// UpdateActivity godoc
// @Summary      Update an activity
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops/{stopID}/activities/{activityID} [put]
func (h *HandlerImpl) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateActivity"))

	ids, ok := h.pathIDs(w, r, l, "tripID", "stopID", "activityID")
	if !ok {
		return
	}

	var req types.UpdateActivityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	activity, err := h.itineraryService.UpdateActivity(ctx, ids[0], ids[1], ids[2], ids[3], req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update activity", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Activity not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, activity)
}

// DeleteActivity godoc
// @Summary      Delete an activity
// @Tags         Itinerary
// @Produce      json
// @Security     BearerAuth
// @Router       /trips/{tripID}/stops/{stopID}/activities/{activityID} [delete]
func (h *HandlerImpl) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteActivity"))

	ids, ok := h.pathIDs(w, r, l, "tripID", "stopID", "activityID")
	if !ok {
		return
	}

	if err := h.itineraryService.DeleteActivity(ctx, ids[0], ids[1], ids[2], ids[3]); err != nil {
		l.ErrorContext(ctx, "Failed to delete activity", slog.Any("error", err))
		h.writeServiceError(w, r, err, "Activity not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Activity deleted successfully",
	})
}
