package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) History(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatMessage, error) {
	args := m.Called(ctx, userID, limit)
	var history []types.ChatMessage
	if args.Get(0) != nil {
		history = args.Get(0).([]types.ChatMessage)
	}
	return history, args.Error(1)
}

func (m *MockChatRepo) SaveMessage(ctx context.Context, msg *types.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepo) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, history []types.ChatMessage, message string) (string, error) {
	args := m.Called(ctx, history, message)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChat(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success - saves both sides of the exchange", func(t *testing.T) {
		mockRepo := new(MockChatRepo)
		mockGen := new(MockGenerator)
		service := NewAssistantService(mockRepo, mockGen, testLogger())

		history := []types.ChatMessage{
			{UserID: userID, Role: types.ChatRoleUser, Content: "Hi"},
			{UserID: userID, Role: types.ChatRoleAssistant, Content: "Hello! Where to?"},
		}
		mockRepo.On("History", ctx, userID, 50).Return(history, nil).Once()
		mockRepo.On("SaveMessage", ctx, mock.MatchedBy(func(msg *types.ChatMessage) bool {
			return msg.Role == types.ChatRoleUser && msg.Content == "Three days in Lisbon?"
		})).Return(nil).Once()
		mockGen.On("Generate", ctx, history, "Three days in Lisbon?").
			Return("Day one: Alfama and the castle.", nil).Once()
		mockRepo.On("SaveMessage", ctx, mock.MatchedBy(func(msg *types.ChatMessage) bool {
			return msg.Role == types.ChatRoleAssistant && msg.Content == "Day one: Alfama and the castle."
		})).Return(nil).Once()

		resp, err := service.Chat(ctx, userID, "Three days in Lisbon?")

		require.NoError(t, err)
		assert.Equal(t, "Day one: Alfama and the castle.", resp.Reply)
		mockRepo.AssertExpectations(t)
		mockGen.AssertExpectations(t)
	})

	t.Run("Failure - empty message never reaches repo or model", func(t *testing.T) {
		mockRepo := new(MockChatRepo)
		mockGen := new(MockGenerator)
		service := NewAssistantService(mockRepo, mockGen, testLogger())

		_, err := service.Chat(ctx, userID, "   ")

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
		mockGen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - model error is propagated", func(t *testing.T) {
		mockRepo := new(MockChatRepo)
		mockGen := new(MockGenerator)
		service := NewAssistantService(mockRepo, mockGen, testLogger())

		mockRepo.On("History", ctx, userID, 50).Return([]types.ChatMessage{}, nil).Once()
		mockRepo.On("SaveMessage", ctx, mock.Anything).Return(nil).Once()
		mockGen.On("Generate", ctx, mock.Anything, "anything open?").
			Return("", errors.New("model overloaded")).Once()

		_, err := service.Chat(ctx, userID, "anything open?")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "model overloaded")
		// Only the user message was stored, never an assistant reply.
		mockRepo.AssertNumberOfCalls(t, "SaveMessage", 1)
	})
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockChatRepo)
	service := NewAssistantService(mockRepo, new(MockGenerator), testLogger())

	mockRepo.On("ClearHistory", ctx, userID).Return(nil).Once()

	err := service.ClearHistory(ctx, userID)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
