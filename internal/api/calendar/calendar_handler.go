package calendar

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/globetrotter-app/globetrotter/internal/api"
	"github.com/globetrotter-app/globetrotter/internal/api/auth"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetMonth(w http.ResponseWriter, r *http.Request)
	GetDay(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	calendarService CalendarService
	logger          *slog.Logger
}

// NewHandlerImpl creates a new calendar HandlerImpl instance.
func NewHandlerImpl(calendarService CalendarService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		calendarService: calendarService,
		logger:          logger,
	}
}

func authedUserID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
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

// GetMonth godoc
// @Summary      Month calendar of the user's trips
// @Tags         Calendar
// @Produce      json
// @Security     BearerAuth
// @Router       /calendar/{year}/{month} [get]
func (h *HandlerImpl) GetMonth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetMonth"))

	userID, ok := authedUserID(w, r, l)
	if !ok {
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid month")
		return
	}

	grid, err := h.calendarService.GetMonth(ctx, userID, year, month)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build month view", slog.Any("error", err))
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build calendar")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, grid)
}

// GetDay godoc
// @Summary      Day detail with trips and stop budgets
// @Tags         Calendar
// @Produce      json
// @Security     BearerAuth
// @Router       /calendar/day [get]
func (h *HandlerImpl) GetDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetDay"))

	userID, ok := authedUserID(w, r, l)
	if !ok {
		return
	}

	day := r.URL.Query().Get("date")
	detail, err := h.calendarService.GetDay(ctx, userID, day)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build day view", slog.Any("error", err))
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build calendar day")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}
