package city

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/globetrotter-app/globetrotter/internal/api"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SearchCities(w http.ResponseWriter, r *http.Request)
	GetCity(w http.ResponseWriter, r *http.Request)
	Autocomplete(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	cityService CityService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new city HandlerImpl instance.
func NewHandlerImpl(cityService CityService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		cityService: cityService,
		logger:      logger,
	}
}

// SearchCities godoc
// @Summary      Search destinations
// @Tags         Cities
// @Produce      json
// @Security     BearerAuth
// @Router       /cities [get]
func (h *HandlerImpl) SearchCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SearchCities"))

	q := r.URL.Query()
	params := types.CitySearchParams{
		Query:     q.Get("q"),
		Country:   q.Get("country"),
		Continent: q.Get("continent"),
	}
	if v := q.Get("max_cost"); v != "" {
		maxCost, err := strconv.Atoi(v)
		if err != nil || maxCost < 1 || maxCost > 5 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "max_cost must be between 1 and 5")
			return
		}
		params.MaxCost = maxCost
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			params.Limit = limit
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			params.Offset = offset
		}
	}

	cities, err := h.cityService.SearchCities(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search cities", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search cities")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, cities)
}

// GetCity godoc
// @Summary      Get a destination by ID
// @Tags         Cities
// @Produce      json
// @Security     BearerAuth
// @Router       /cities/{cityID} [get]
func (h *HandlerImpl) GetCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetCity"))

	cityID, err := uuid.Parse(chi.URLParam(r, "cityID"))
	if err != nil {
		l.WarnContext(ctx, "Invalid city ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid city ID format")
		return
	}

	city, err := h.cityService.GetCity(ctx, cityID)
	if err != nil {
		l.WarnContext(ctx, "Failed to get city", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "City not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve city")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, city)
}

// Autocomplete godoc
// @Summary      City name autocomplete
// @Tags         Cities
// @Produce      json
// @Security     BearerAuth
// @Router       /cities/autocomplete [get]
func (h *HandlerImpl) Autocomplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Autocomplete"))

	limit := 8
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	suggestions, err := h.cityService.Autocomplete(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to autocomplete", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch suggestions")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, suggestions)
}
