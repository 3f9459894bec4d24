package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/globetrotter-app/globetrotter/config"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication.
type AuthService interface {
	// Register creates a new user and returns it without tokens.
	Register(ctx context.Context, req types.RegisterRequest) (*types.User, error)

	// Login validates credentials and returns access and refresh tokens.
	Login(ctx context.Context, email, password string) (*types.LoginResponse, error)

	// RefreshSession rotates a refresh token: the old one is revoked and a
	// fresh pair is issued.
	RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error)

	// Logout revokes a single refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// ChangePassword verifies the old password, stores the new hash and
	// revokes every outstanding refresh token.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

// NewAuthService creates a new auth service instance.
func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("user.email", req.Email),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("email", req.Email))
	l.DebugContext(ctx, "Registering user")

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", types.ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", types.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     optional(req.Phone),
		City:      optional(req.City),
		Country:   optional(req.Country),
		Bio:       optional(req.Bio),
		Role:      types.RoleUser,
	}
	if err := s.repo.CreateUser(ctx, user, string(hash)); err != nil {
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	l.InfoContext(ctx, "User registered successfully", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered successfully")
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.email", email),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))
	l.DebugContext(ctx, "Authenticating user")

	user, hash, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.WarnContext(ctx, "Login failed, user lookup", slog.Any("error", err))
		// Same answer for unknown email and bad password.
		return nil, fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Login failed, password mismatch")
		return nil, fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue tokens")
		return nil, err
	}

	l.InfoContext(ctx, "User logged in successfully", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User logged in successfully")
	return &types.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	l := s.logger.With(slog.String("method", "RefreshSession"))

	userID, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		l.WarnContext(ctx, "Refresh token rejected", slog.Any("error", err))
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Refresh token owner missing", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	// Rotate: old token dies with the new issuance.
	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.ErrorContext(ctx, "Failed to revoke old refresh token", slog.Any("error", err))
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue tokens")
		return nil, err
	}

	l.InfoContext(ctx, "Session refreshed", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "Session refreshed")
	return &types.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	l := s.logger.With(slog.String("method", "Logout"))
	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.ErrorContext(ctx, "Failed to revoke refresh token", slog.Any("error", err))
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	l.InfoContext(ctx, "User logged out")
	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ChangePassword", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))

	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", types.ErrValidation)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error fetching user: %w", err)
	}
	_, hash, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error fetching credentials: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)); err != nil {
		l.WarnContext(ctx, "Password change rejected, old password mismatch")
		return fmt.Errorf("invalid old password: %w", types.ErrUnauthenticated)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		l.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update password")
		return fmt.Errorf("error updating password: %w", err)
	}

	if err := s.repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
		l.WarnContext(ctx, "Failed to revoke refresh tokens after password change", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Password changed successfully")
	span.SetStatus(codes.Ok, "Password changed successfully")
	return nil
}

// issueTokens mints a signed access token and a stored opaque refresh token.
func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *types.User) (string, string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refresh, now.Add(s.jwtCfg.RefreshTokenTTL)); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return access, refresh, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
