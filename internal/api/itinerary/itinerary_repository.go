package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	db "github.com/globetrotter-app/globetrotter/app/db"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ ItineraryRepo = (*PostgresItineraryRepo)(nil)

// ItineraryRepo defines the contract for stop and activity persistence.
// Ownership checks happen in the service layer against the trips table;
// everything here is keyed by tripID.
type ItineraryRepo interface {
	// ListStops returns the trip's stops ordered by order_index, with
	// activities attached in their own order.
	ListStops(ctx context.Context, tripID uuid.UUID) ([]types.Stop, error)

	GetStop(ctx context.Context, tripID, stopID uuid.UUID) (*types.Stop, error)
	CreateStop(ctx context.Context, stop *types.Stop) error
	UpdateStop(ctx context.Context, stop *types.Stop) error

	// DeleteStop removes a stop without renumbering the survivors.
	DeleteStop(ctx context.Context, tripID, stopID uuid.UUID) error

	// SaveStopOrder rewrites order_index densely, 0..n-1 following stopIDs,
	// in a single transaction.
	SaveStopOrder(ctx context.Context, tripID uuid.UUID, stopIDs []uuid.UUID) error

	CreateActivity(ctx context.Context, activity *types.Activity) error
	UpdateActivity(ctx context.Context, activity *types.Activity) error
	DeleteActivity(ctx context.Context, stopID, activityID uuid.UUID) error
	GetActivity(ctx context.Context, stopID, activityID uuid.UUID) (*types.Activity, error)

	// ListStopsOnDay returns the user's stops whose range covers the day.
	ListStopsOnDay(ctx context.Context, userID uuid.UUID, day string) ([]types.Stop, error)
}

type PostgresItineraryRepo struct {
	logger *slog.Logger
	pgpool db.Pool
}

func NewPostgresItineraryRepo(pgpool db.Pool, logger *slog.Logger) *PostgresItineraryRepo {
	return &PostgresItineraryRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const stopColumns = `id, trip_id, city_id, city_name, country,
       to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
       order_index, budget, notes, created_at, updated_at`

const activityColumns = `id, stop_id, name, description, category, cost, currency,
       to_char(activity_date, 'YYYY-MM-DD'),
       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
       location, is_booked, order_index, created_at, updated_at`

func scanStop(row pgx.Row, s *types.Stop) error {
	return row.Scan(
		&s.ID, &s.TripID, &s.CityID, &s.CityName, &s.Country,
		&s.StartDate, &s.EndDate,
		&s.OrderIndex, &s.Budget, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
}

func scanActivity(row pgx.Row, a *types.Activity) error {
	return row.Scan(
		&a.ID, &a.StopID, &a.Name, &a.Description, &a.Category, &a.Cost, &a.Currency,
		&a.ActivityDate, &a.StartTime, &a.EndTime,
		&a.Location, &a.IsBooked, &a.OrderIndex, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *PostgresItineraryRepo) ListStops(ctx context.Context, tripID uuid.UUID) ([]types.Stop, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "ListStops", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := fmt.Sprintf("SELECT %s FROM stops WHERE trip_id = $1 ORDER BY order_index", stopColumns)
	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list stops")
		return nil, fmt.Errorf("failed to list stops: %w", err)
	}
	defer rows.Close()

	stops := []types.Stop{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var s types.Stop
		if err := scanStop(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan stop: %w", err)
		}
		s.Activities = []types.Activity{}
		index[s.ID] = len(stops)
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating stops: %w", err)
	}
	if len(stops) == 0 {
		span.SetStatus(codes.Ok, "no stops")
		return stops, nil
	}

	actQuery := fmt.Sprintf(`SELECT %s FROM activities
		WHERE stop_id IN (SELECT id FROM stops WHERE trip_id = $1)
		ORDER BY order_index, created_at`, activityColumns)
	actRows, err := r.pgpool.Query(ctx, actQuery, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list activities")
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer actRows.Close()

	for actRows.Next() {
		var a types.Activity
		if err := scanActivity(actRows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if i, ok := index[a.StopID]; ok {
			stops[i].Activities = append(stops[i].Activities, a)
		}
	}
	if err := actRows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating activities: %w", err)
	}

	span.SetStatus(codes.Ok, "stops listed")
	return stops, nil
}

func (r *PostgresItineraryRepo) GetStop(ctx context.Context, tripID, stopID uuid.UUID) (*types.Stop, error) {
	var stop types.Stop
	query := fmt.Sprintf("SELECT %s FROM stops WHERE id = $1 AND trip_id = $2", stopColumns)
	err := scanStop(r.pgpool.QueryRow(ctx, query, stopID, tripID), &stop)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("stop not found: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch stop: %w", err)
	}

	stop.Activities = []types.Activity{}
	actQuery := fmt.Sprintf("SELECT %s FROM activities WHERE stop_id = $1 ORDER BY order_index, created_at", activityColumns)
	rows, err := r.pgpool.Query(ctx, actQuery, stopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a types.Activity
		if err := scanActivity(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		stop.Activities = append(stop.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating activities: %w", err)
	}
	return &stop, nil
}

func (r *PostgresItineraryRepo) CreateStop(ctx context.Context, stop *types.Stop) error {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "CreateStop", trace.WithAttributes(
		attribute.String("trip.id", stop.TripID.String()),
	))
	defer span.End()

	query := `
		INSERT INTO stops (trip_id, city_id, city_name, country, start_date, end_date,
		                   order_index, budget, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		stop.TripID, stop.CityID, stop.CityName, stop.Country,
		stop.StartDate, stop.EndDate, stop.OrderIndex, stop.Budget, stop.Notes,
	).Scan(&stop.ID, &stop.CreatedAt, &stop.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert stop")
		return fmt.Errorf("failed to insert stop: %w", err)
	}
	span.SetStatus(codes.Ok, "stop created")
	return nil
}

func (r *PostgresItineraryRepo) UpdateStop(ctx context.Context, stop *types.Stop) error {
	query := `
		UPDATE stops SET city_id = $3, city_name = $4, country = $5,
		       start_date = $6, end_date = $7, budget = $8, notes = $9,
		       updated_at = now()
		WHERE id = $1 AND trip_id = $2
	`
	tag, err := r.pgpool.Exec(ctx, query,
		stop.ID, stop.TripID, stop.CityID, stop.CityName, stop.Country,
		stop.StartDate, stop.EndDate, stop.Budget, stop.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update stop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stop not found: %w", types.ErrNotFound)
	}
	return nil
}

func (r *PostgresItineraryRepo) DeleteStop(ctx context.Context, tripID, stopID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM stops WHERE id = $1 AND trip_id = $2", stopID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete stop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stop not found: %w", types.ErrNotFound)
	}
	return nil
}

func (r *PostgresItineraryRepo) SaveStopOrder(ctx context.Context, tripID uuid.UUID, stopIDs []uuid.UUID) error {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "SaveStopOrder", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("stop.count", len(stopIDs)),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stopID := range stopIDs {
		tag, err := tx.Exec(ctx,
			"UPDATE stops SET order_index = $1, updated_at = now() WHERE id = $2 AND trip_id = $3",
			i, stopID, tripID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to update stop order")
			return fmt.Errorf("failed to update stop order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("stop %s not in trip: %w", stopID, types.ErrNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit stop order")
		return fmt.Errorf("failed to commit stop order: %w", err)
	}
	span.SetStatus(codes.Ok, "stop order saved")
	return nil
}

func (r *PostgresItineraryRepo) CreateActivity(ctx context.Context, activity *types.Activity) error {
	query := `
		INSERT INTO activities (stop_id, name, description, category, cost, currency,
		                        activity_date, start_time, end_time, location, is_booked, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        (SELECT COALESCE(MAX(order_index) + 1, 0) FROM activities WHERE stop_id = $1))
		RETURNING id, order_index, created_at, updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		activity.StopID, activity.Name, activity.Description, activity.Category,
		activity.Cost, activity.Currency, activity.ActivityDate,
		activity.StartTime, activity.EndTime, activity.Location, activity.IsBooked,
	).Scan(&activity.ID, &activity.OrderIndex, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (r *PostgresItineraryRepo) UpdateActivity(ctx context.Context, activity *types.Activity) error {
	query := `
		UPDATE activities SET name = $3, description = $4, category = $5, cost = $6,
		       currency = $7, activity_date = $8, start_time = $9, end_time = $10,
		       location = $11, is_booked = $12, updated_at = now()
		WHERE id = $1 AND stop_id = $2
	`
	tag, err := r.pgpool.Exec(ctx, query,
		activity.ID, activity.StopID, activity.Name, activity.Description,
		activity.Category, activity.Cost, activity.Currency, activity.ActivityDate,
		activity.StartTime, activity.EndTime, activity.Location, activity.IsBooked,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity not found: %w", types.ErrNotFound)
	}
	return nil
}

func (r *PostgresItineraryRepo) DeleteActivity(ctx context.Context, stopID, activityID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM activities WHERE id = $1 AND stop_id = $2", activityID, stopID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity not found: %w", types.ErrNotFound)
	}
	return nil
}

func (r *PostgresItineraryRepo) GetActivity(ctx context.Context, stopID, activityID uuid.UUID) (*types.Activity, error) {
	var a types.Activity
	query := fmt.Sprintf("SELECT %s FROM activities WHERE id = $1 AND stop_id = $2", activityColumns)
	err := scanActivity(r.pgpool.QueryRow(ctx, query, activityID, stopID), &a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("activity not found: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch activity: %w", err)
	}
	return &a, nil
}

func (r *PostgresItineraryRepo) ListStopsOnDay(ctx context.Context, userID uuid.UUID, day string) ([]types.Stop, error) {
	query := fmt.Sprintf(`SELECT %s FROM stops s
		WHERE s.trip_id IN (SELECT id FROM trips WHERE user_id = $1)
		  AND s.start_date <= $2::date AND s.end_date >= $2::date
		ORDER BY s.order_index`, stopColumnsPrefixed("s"))
	rows, err := r.pgpool.Query(ctx, query, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list stops on day: %w", err)
	}
	defer rows.Close()

	stops := []types.Stop{}
	for rows.Next() {
		var s types.Stop
		if err := scanStop(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan stop: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating stops: %w", err)
	}
	return stops, nil
}

func stopColumnsPrefixed(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.trip_id, %[1]s.city_id, %[1]s.city_name, %[1]s.country,
       to_char(%[1]s.start_date, 'YYYY-MM-DD'), to_char(%[1]s.end_date, 'YYYY-MM-DD'),
       %[1]s.order_index, %[1]s.budget, %[1]s.notes, %[1]s.created_at, %[1]s.updated_at`, alias)
}
