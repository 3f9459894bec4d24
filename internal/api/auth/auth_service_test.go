package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/globetrotter-app/globetrotter/config"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, user *types.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*types.User), args.String(1), args.Error(2)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepo) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, newHash string) error {
	args := m.Called(ctx, userID, newHash)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:       "test-access-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "test-issuer",
		Audience:        "test-audience",
	}
}

func TestLogin(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		email := "test@example.com"
		password := "password123"
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		user := &types.User{ID: uuid.New(), Email: email, Role: types.RoleUser}

		mockRepo.On("GetUserByEmail", ctx, email).Return(user, string(hashedPassword), nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

		resp, err := service.Login(ctx, email, password)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, email, resp.User.Email)
		mockRepo.AssertExpectations(t)

		// Access token carries the configured issuer and the user's claims.
		claims := &types.Claims{}
		_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("test-access-secret"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "test-issuer", claims.Issuer)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		mockRepo.On("GetUserByEmail", ctx, "missing@example.com").Return(nil, "", types.ErrNotFound).Once()

		resp, err := service.Login(ctx, "missing@example.com", "whatever")

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, types.ErrUnauthenticated, "unknown email must not be distinguishable from bad password")
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
		user := &types.User{ID: uuid.New(), Email: "test@example.com"}
		mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, string(hashedPassword), nil).Once()

		resp, err := service.Login(ctx, user.Email, "wrong-password")

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestRegister(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*types.User"), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				u := args.Get(0).(*types.User)
				u.ID = uuid.New()
				hash := args.String(1)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")))
			}).Return(nil).Once()

		user, err := service.Register(ctx, types.RegisterRequest{
			Email:     "new@example.com",
			Password:  "password123",
			FirstName: "Ada",
			LastName:  "Lovelace",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, types.RoleUser, user.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)

		_, err := service.Register(context.Background(), types.RegisterRequest{
			Email:    "new@example.com",
			Password: "short",
		})

		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "CreateUser")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		mockRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).Return(types.ErrConflict).Once()

		_, err := service.Register(ctx, types.RegisterRequest{
			Email:    "taken@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, types.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestRefreshSession(t *testing.T) {
	logger := slog.Default()

	t.Run("RotatesToken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		user := &types.User{ID: uuid.New(), Email: "test@example.com", Role: types.RoleUser}
		oldToken := "old-refresh-token"

		mockRepo.On("GetRefreshToken", ctx, oldToken).Return(user.ID, nil).Once()
		mockRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()
		mockRepo.On("RevokeRefreshToken", ctx, oldToken).Return(nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

		resp, err := service.RefreshSession(ctx, oldToken)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEqual(t, oldToken, resp.RefreshToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RejectedToken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		mockRepo.On("GetRefreshToken", ctx, "bogus").Return(uuid.Nil, types.ErrUnauthenticated).Once()

		resp, err := service.RefreshSession(ctx, "bogus")

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "StoreRefreshToken")
	})
}

func TestChangePassword(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		oldHash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
		user := &types.User{ID: uuid.New(), Email: "test@example.com"}

		mockRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()
		mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, string(oldHash), nil).Once()
		mockRepo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
		mockRepo.On("RevokeAllRefreshTokens", ctx, user.ID).Return(nil).Once()

		err := service.ChangePassword(ctx, user.ID, "old-password", "new-password-1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongOldPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), logger)
		ctx := context.Background()

		oldHash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
		user := &types.User{ID: uuid.New(), Email: "test@example.com"}

		mockRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()
		mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, string(oldHash), nil).Once()

		err := service.ChangePassword(ctx, user.ID, "not-the-old-password", "new-password-1")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "UpdatePassword")
	})
}

func TestLogout(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, testJWTConfig(), slog.Default())
	ctx := context.Background()

	mockRepo.On("RevokeRefreshToken", ctx, "some-token").Return(nil).Once()
	assert.NoError(t, service.Logout(ctx, "some-token"))

	mockRepo.On("RevokeRefreshToken", ctx, "failing-token").Return(errors.New("db down")).Once()
	assert.Error(t, service.Logout(ctx, "failing-token"))
	mockRepo.AssertExpectations(t)
}
