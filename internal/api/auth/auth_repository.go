package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	db "github.com/globetrotter-app/globetrotter/app/db"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for auth data persistence.
type AuthRepo interface {
	// CreateUser inserts a new user with an already-hashed password.
	// Returns types.ErrConflict when the email is taken.
	CreateUser(ctx context.Context, user *types.User, passwordHash string) error

	// GetUserByEmail returns the user plus their password hash.
	// Returns types.ErrNotFound when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*types.User, string, error)

	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)

	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error

	// GetRefreshToken resolves a refresh token to its owner. Revoked or
	// expired tokens yield types.ErrUnauthenticated.
	GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error)

	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error

	UpdatePassword(ctx context.Context, userID uuid.UUID, newHash string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool db.Pool
}

func NewPostgresAuthRepo(pgpool db.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, user *types.User, passwordHash string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		attribute.String("user.email", user.Email),
	))
	defer span.End()

	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, city, country, bio, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		user.Email, passwordHash, user.FirstName, user.LastName,
		user.Phone, user.City, user.Country, user.Bio, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetStatus(codes.Error, "email already registered")
			return fmt.Errorf("email already registered: %w", types.ErrConflict)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert user")
		return fmt.Errorf("failed to insert user: %w", err)
	}

	span.SetStatus(codes.Ok, "user created")
	return nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, string, error) {
	var user types.User
	var hash string
	query := `
		SELECT id, email, first_name, last_name, phone, photo_url, city, country, bio, role,
		       password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Phone, &user.PhotoURL, &user.City, &user.Country, &user.Bio, &user.Role,
		&hash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, hash, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	var user types.User
	query := `
		SELECT id, email, first_name, last_name, phone, photo_url, city, country, bio, role,
		       created_at, updated_at
		FROM users WHERE id = $1
	`
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Phone, &user.PhotoURL, &user.City, &user.Country, &user.Bio, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user by id: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	var revokedAt *time.Time
	err := r.pgpool.QueryRow(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token = $1",
		token).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("refresh token not found: %w", types.ErrUnauthenticated)
		}
		return uuid.Nil, fmt.Errorf("failed to fetch refresh token: %w", err)
	}
	if revokedAt != nil {
		return uuid.Nil, fmt.Errorf("refresh token revoked: %w", types.ErrUnauthenticated)
	}
	if time.Now().After(expiresAt) {
		return uuid.Nil, fmt.Errorf("refresh token expired: %w", types.ErrUnauthenticated)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE token = $2 AND revoked_at IS NULL",
		time.Now(), token)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL",
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, newHash string) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2",
		newHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", types.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
