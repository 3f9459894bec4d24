package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	db "github.com/globetrotter-app/globetrotter/app/db"
	"github.com/globetrotter-app/globetrotter/app/observability/metrics"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ TripRepo = (*PostgresTripRepo)(nil)

// TripRepo defines the contract for trip persistence. Every read and write
// is scoped to the owning user.
type TripRepo interface {
	CreateTrip(ctx context.Context, trip *types.Trip) error

	// GetTrip returns types.ErrNotFound when the trip does not exist or
	// belongs to another user.
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)

	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)

	// ListTripsInRange returns the user's trips overlapping [from, to].
	ListTripsInRange(ctx context.Context, userID uuid.UUID, from, to string) ([]types.Trip, error)

	UpdateTrip(ctx context.Context, userID uuid.UUID, trip *types.Trip) error
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

type PostgresTripRepo struct {
	logger *slog.Logger
	pgpool db.Pool
}

func NewPostgresTripRepo(pgpool db.Pool, logger *slog.Logger) *PostgresTripRepo {
	return &PostgresTripRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const tripColumns = `id, user_id, name, destination, description,
       to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
       status, is_public, total_budget, cover_photo, created_at, updated_at`

func scanTrip(row pgx.Row, t *types.Trip) error {
	return row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Destination, &t.Description,
		&t.StartDate, &t.EndDate,
		&t.Status, &t.IsPublic, &t.TotalBudget, &t.CoverPhoto,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *PostgresTripRepo) CreateTrip(ctx context.Context, trip *types.Trip) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", trip.UserID.String()),
	))
	defer span.End()

	start := time.Now()
	query := `
		INSERT INTO trips (user_id, name, destination, description, start_date, end_date,
		                   status, is_public, total_budget, cover_photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		trip.UserID, trip.Name, trip.Destination, trip.Description,
		trip.StartDate, trip.EndDate, trip.Status, trip.IsPublic,
		trip.TotalBudget, trip.CoverPhoto,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", "trips_insert")))
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("query", "trips_insert")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert trip")
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	span.SetStatus(codes.Ok, "trip created")
	return nil
}

func (r *PostgresTripRepo) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	var trip types.Trip
	query := fmt.Sprintf("SELECT %s FROM trips WHERE id = $1 AND user_id = $2", tripColumns)
	err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID, userID), &trip)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip not found: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}
	return &trip, nil
}

func (r *PostgresTripRepo) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE user_id = $1
		ORDER BY start_date DESC, created_at DESC`, tripColumns)
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []types.Trip{}
	for rows.Next() {
		var t types.Trip
		if err := scanTrip(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating trips: %w", err)
	}
	return trips, nil
}

func (r *PostgresTripRepo) ListTripsInRange(ctx context.Context, userID uuid.UUID, from, to string) ([]types.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips
		WHERE user_id = $1 AND start_date <= $3::date AND end_date >= $2::date
		ORDER BY start_date`, tripColumns)
	rows, err := r.pgpool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips in range: %w", err)
	}
	defer rows.Close()

	trips := []types.Trip{}
	for rows.Next() {
		var t types.Trip
		if err := scanTrip(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating trips: %w", err)
	}
	return trips, nil
}

func (r *PostgresTripRepo) UpdateTrip(ctx context.Context, userID uuid.UUID, trip *types.Trip) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "UpdateTrip", trace.WithAttributes(
		attribute.String("trip.id", trip.ID.String()),
	))
	defer span.End()

	setClauses := []string{
		"name = $3", "destination = $4", "description = $5",
		"start_date = $6", "end_date = $7", "status = $8",
		"is_public = $9", "total_budget = $10", "cover_photo = $11",
		"updated_at = now()",
	}
	query := fmt.Sprintf("UPDATE trips SET %s WHERE id = $1 AND user_id = $2",
		strings.Join(setClauses, ", "))

	tag, err := r.pgpool.Exec(ctx, query,
		trip.ID, userID,
		trip.Name, trip.Destination, trip.Description,
		trip.StartDate, trip.EndDate, trip.Status,
		trip.IsPublic, trip.TotalBudget, trip.CoverPhoto,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update trip")
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip not found: %w", types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "trip updated")
	return nil
}

func (r *PostgresTripRepo) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	// Stops and activities go with it via ON DELETE CASCADE.
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM trips WHERE id = $1 AND user_id = $2", tripID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip not found: %w", types.ErrNotFound)
	}
	return nil
}
