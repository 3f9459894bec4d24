package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	db "github.com/globetrotter-app/globetrotter/app/db"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ ChatRepo = (*PostgresChatRepo)(nil)

// ChatRepo persists the per-user conversation with the travel assistant.
type ChatRepo interface {
	// History returns the most recent messages, oldest first.
	History(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatMessage, error)

	SaveMessage(ctx context.Context, msg *types.ChatMessage) error
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

type PostgresChatRepo struct {
	logger *slog.Logger
	pgpool db.Pool
}

func NewPostgresChatRepo(pgpool db.Pool, logger *slog.Logger) *PostgresChatRepo {
	return &PostgresChatRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresChatRepo) History(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pgpool.Query(ctx, `
		SELECT id, user_id, role, content, created_at FROM (
			SELECT id, user_id, role, content, created_at
			FROM chat_messages WHERE user_id = $1
			ORDER BY created_at DESC LIMIT $2
		) recent ORDER BY created_at`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}
	defer rows.Close()

	messages := []types.ChatMessage{}
	for rows.Next() {
		var m types.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating chat history: %w", err)
	}
	return messages, nil
}

func (r *PostgresChatRepo) SaveMessage(ctx context.Context, msg *types.ChatMessage) error {
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO chat_messages (user_id, role, content) VALUES ($1, $2, $3) RETURNING id, created_at",
		msg.UserID, msg.Role, msg.Content).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (r *PostgresChatRepo) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pgpool.Exec(ctx,
		"DELETE FROM chat_messages WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}
