package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

const defaultModel = "gemini-2.0-flash"

const systemPrompt = `You are a travel planning assistant for a trip planner
application. Help with destinations, itinerary pacing, budgets and local
tips. Keep answers short and practical.`

// Generator abstracts the LLM call so the service is testable without a
// live Gemini key.
type Generator interface {
	Generate(ctx context.Context, history []types.ChatMessage, message string) (string, error)
}

// GeminiClient wraps the Gemini API behind the Generator interface.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds the Gemini-backed generator. The API key comes
// from GOOGLE_GEMINI_API_KEY.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  defaultModel,
	}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, history []types.ChatMessage, message string) (string, error) {
	// Replay the stored conversation so the model keeps context.
	var prior []*genai.Content
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == types.ChatRoleAssistant {
			role = genai.RoleModel
		}
		prior = append(prior, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.5),
	}
	chat, err := g.client.Chats.Create(ctx, g.model, config, prior)
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	result, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return result.Text(), nil
}

// DisabledGenerator stands in when no Gemini key is configured, so the
// server still boots with the chat endpoint returning an error.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(_ context.Context, _ []types.ChatMessage, _ string) (string, error) {
	return "", errors.New("assistant is not configured: GOOGLE_GEMINI_API_KEY is missing")
}

// Ensure implementation satisfies the interface
var _ AssistantService = (*AssistantServiceImpl)(nil)

// AssistantService defines the business logic contract for the travel chat.
type AssistantService interface {
	// Chat stores the user message, asks the model with recent history as
	// context, stores the reply and returns it.
	Chat(ctx context.Context, userID uuid.UUID, message string) (*types.ChatResponse, error)

	History(ctx context.Context, userID uuid.UUID) ([]types.ChatMessage, error)
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

// AssistantServiceImpl provides the implementation for AssistantService.
type AssistantServiceImpl struct {
	logger    *slog.Logger
	repo      ChatRepo
	generator Generator
}

// NewAssistantService creates a new assistant service instance.
func NewAssistantService(repo ChatRepo, generator Generator, logger *slog.Logger) *AssistantServiceImpl {
	return &AssistantServiceImpl{
		logger:    logger,
		repo:      repo,
		generator: generator,
	}
}

func (s *AssistantServiceImpl) Chat(ctx context.Context, userID uuid.UUID, message string) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Chat", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Chat"), slog.String("userID", userID.String()))

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message cannot be empty: %w", types.ErrValidation)
	}

	history, err := s.repo.History(ctx, userID, 50)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load chat history", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load chat history")
		return nil, fmt.Errorf("error loading chat history: %w", err)
	}

	userMsg := &types.ChatMessage{UserID: userID, Role: types.ChatRoleUser, Content: message}
	if err := s.repo.SaveMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("error saving message: %w", err)
	}

	reply, err := s.generator.Generate(ctx, history, message)
	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return nil, fmt.Errorf("error generating reply: %w", err)
	}

	assistantMsg := &types.ChatMessage{UserID: userID, Role: types.ChatRoleAssistant, Content: reply}
	if err := s.repo.SaveMessage(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("error saving reply: %w", err)
	}

	l.InfoContext(ctx, "Assistant replied", slog.Int("replyLen", len(reply)))
	span.SetStatus(codes.Ok, "Assistant replied")
	return &types.ChatResponse{Reply: reply}, nil
}

func (s *AssistantServiceImpl) History(ctx context.Context, userID uuid.UUID) ([]types.ChatMessage, error) {
	history, err := s.repo.History(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("error loading chat history: %w", err)
	}
	return history, nil
}

func (s *AssistantServiceImpl) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearHistory(ctx, userID); err != nil {
		return fmt.Errorf("error clearing chat history: %w", err)
	}
	return nil
}
