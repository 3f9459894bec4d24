package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	db "github.com/globetrotter-app/globetrotter/app/db"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

var _ CityRepository = (*PostgresCityRepository)(nil)

type CityRepository interface {
	// SearchCities filters the curated city catalogue. Results come back
	// most popular first.
	SearchCities(ctx context.Context, params types.CitySearchParams) ([]types.City, error)

	GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error)

	// SuggestCities is the autocomplete query: prefix match on name, capped.
	SuggestCities(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error)
}

type PostgresCityRepository struct {
	logger *slog.Logger
	pgpool db.Pool
}

func NewCityRepository(pgpool db.Pool, logger *slog.Logger) *PostgresCityRepository {
	return &PostgresCityRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

const cityColumns = `id, name, country, continent, latitude, longitude,
       cost_index, popularity, timezone, description, image_url, created_at`

func scanCity(row pgx.Row, c *types.City) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Country, &c.Continent, &c.Latitude, &c.Longitude,
		&c.CostIndex, &c.Popularity, &c.Timezone, &c.Description, &c.ImageURL,
		&c.CreatedAt,
	)
}

func (r *PostgresCityRepository) SearchCities(ctx context.Context, params types.CitySearchParams) ([]types.City, error) {
	clauses := []string{}
	args := []any{}

	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR country ILIKE $%d)", len(args), len(args)))
	}
	if params.Country != "" {
		args = append(args, params.Country)
		clauses = append(clauses, fmt.Sprintf("country ILIKE $%d", len(args)))
	}
	if params.Continent != "" {
		args = append(args, params.Continent)
		clauses = append(clauses, fmt.Sprintf("continent ILIKE $%d", len(args)))
	}
	if params.MaxCost > 0 {
		args = append(args, params.MaxCost)
		clauses = append(clauses, fmt.Sprintf("cost_index <= $%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM cities", cityColumns)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY popularity DESC, name"

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}
	defer rows.Close()

	cities := []types.City{}
	for rows.Next() {
		var c types.City
		if err := scanCity(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating cities: %w", err)
	}
	return cities, nil
}

func (r *PostgresCityRepository) GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error) {
	var c types.City
	query := fmt.Sprintf("SELECT %s FROM cities WHERE id = $1", cityColumns)
	err := scanCity(r.pgpool.QueryRow(ctx, query, cityID), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("city not found: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch city: %w", err)
	}
	return &c, nil
}

func (r *PostgresCityRepository) SuggestCities(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error) {
	if limit <= 0 || limit > 20 {
		limit = 8
	}
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, name, country FROM cities
		 WHERE name ILIKE $1 ORDER BY popularity DESC, name LIMIT $2`,
		prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest cities: %w", err)
	}
	defer rows.Close()

	suggestions := []types.CitySuggestion{}
	for rows.Next() {
		var s types.CitySuggestion
		if err := rows.Scan(&s.ID, &s.Name, &s.Country); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating suggestions: %w", err)
	}
	return suggestions, nil
}
