package assistant

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/globetrotter-app/globetrotter/internal/api"
	"github.com/globetrotter-app/globetrotter/internal/api/auth"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Chat(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	ClearHistory(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	assistantService AssistantService
	logger           *slog.Logger
}

// NewHandlerImpl creates a new assistant HandlerImpl instance.
func NewHandlerImpl(assistantService AssistantService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		assistantService: assistantService,
		logger:           logger,
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

// Chat godoc
// @Summary      Ask the travel assistant
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /assistant/chat [post]
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Chat"))

	userID, ok := authedUserID(w, r, l)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := h.assistantService.Chat(ctx, userID, req.Message)
	if err != nil {
		l.ErrorContext(ctx, "Chat failed", slog.Any("error", err))
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Assistant is unavailable")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// History godoc
// @Summary      Recent assistant conversation
// @Tags         Assistant
// @Produce      json
// @Security     BearerAuth
// @Router       /assistant/history [get]
func (h *HandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "History"))

	userID, ok := authedUserID(w, r, l)
	if !ok {
		return
	}

	history, err := h.assistantService.History(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load history", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load chat history")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, history)
}

// ClearHistory godoc
// @Summary      Clear the assistant conversation
// @Tags         Assistant
// @Produce      json
// @Security     BearerAuth
// @Router       /assistant/history [delete]
func (h *HandlerImpl) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ClearHistory"))

	userID, ok := authedUserID(w, r, l)
	if !ok {
		return
	}

	if err := h.assistantService.ClearHistory(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Failed to clear history", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to clear chat history")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Chat history cleared",
	})
}
