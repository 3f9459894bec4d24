package user

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

// MockUserRepo is a mock implementation of the UserRepo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func TestGetUserProfile(t *testing.T) {
	mockRepo := new(MockUserRepo)
	service := NewUserService(mockRepo, slog.Default())
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("GetUserByID", ctx, userID).
			Return(&types.User{ID: userID, Email: "ada@example.com"}, nil).Once()

		profile, err := service.GetUserProfile(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", profile.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo.On("GetUserByID", ctx, userID).Return(nil, types.ErrNotFound).Once()

		_, err := service.GetUserProfile(ctx, userID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateUserProfile(t *testing.T) {
	mockRepo := new(MockUserRepo)
	service := NewUserService(mockRepo, slog.Default())
	ctx := context.Background()
	userID := uuid.New()

	bio := "Collector of train timetables"
	req := types.UpdateProfileRequest{Bio: &bio}

	mockRepo.On("UpdateProfile", ctx, userID, req).Return(nil).Once()
	mockRepo.On("GetUserByID", ctx, userID).
		Return(&types.User{ID: userID, Bio: &bio}, nil).Once()

	profile, err := service.UpdateUserProfile(ctx, userID, req)

	require.NoError(t, err)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, bio, *profile.Bio)
	mockRepo.AssertExpectations(t)
}
