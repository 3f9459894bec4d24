package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for user profile operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest) (*types.User, error)
}

// UserServiceImpl provides the implementation for UserService.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetUserProfile retrieves a user's profile by ID.
func (s *UserServiceImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	l := s.logger.With(slog.String("method", "GetUserProfile"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Fetching user profile")

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user profile", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching user profile: %w", err)
	}
	return user, nil
}

// UpdateUserProfile applies a partial profile update and returns the result.
func (s *UserServiceImpl) UpdateUserProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateUserProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateUserProfile"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Updating user profile")

	if err := s.repo.UpdateProfile(ctx, userID, req); err != nil {
		l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update user profile")
		return nil, fmt.Errorf("error updating user profile: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching updated profile: %w", err)
	}

	l.InfoContext(ctx, "User profile updated successfully")
	span.SetStatus(codes.Ok, "User profile updated successfully")
	return user, nil
}
