package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	db "github.com/globetrotter-app/globetrotter/app/db"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user profile persistence.
type UserRepo interface {
	// GetUserByID retrieves a user's profile by their unique ID.
	// Returns types.ErrNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)

	// UpdateProfile updates mutable fields on a user's profile. Only the
	// non-nil fields of req are written.
	UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest) error
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool db.Pool
}

func NewPostgresUserRepo(pgpool db.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
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
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	setClauses := []string{}
	args := []any{userID}

	addSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.FirstName != nil {
		addSet("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		addSet("last_name", *req.LastName)
	}
	if req.Phone != nil {
		addSet("phone", *req.Phone)
	}
	if req.PhotoURL != nil {
		addSet("photo_url", *req.PhotoURL)
	}
	if req.City != nil {
		addSet("city", *req.City)
	}
	if req.Country != nil {
		addSet("country", *req.Country)
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}

	if len(setClauses) == 0 {
		span.SetStatus(codes.Ok, "nothing to update")
		return nil
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $1", strings.Join(setClauses, ", "))
	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update profile")
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "profile updated")
	return nil
}
