package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	registry "transit-registry/internal/registry/domain"
)

const defaultStationsTable = "stations"

// StationRepository is a Postgres implementation for stations.
type StationRepository struct {
	db    DBTX
	table string
}

// NewStationRepository constructs a repository.
func NewStationRepository(db DBTX, opts ...StationOption) *StationRepository {
	repo := &StationRepository{db: db, table: defaultStationsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// StationOption configures the repository.
type StationOption func(*StationRepository)

// WithStationTable overrides the default table name.
func WithStationTable(table string) StationOption {
	return func(repo *StationRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Create inserts a station.
func (r *StationRepository) Create(ctx context.Context, station *registry.Station) error {
	if r == nil || r.db == nil {
		return errors.New("station repo: nil db")
	}
	if station == nil {
		return errors.New("station repo: nil station")
	}
	if err := station.Validate(); err != nil {
		return err
	}
	query := fmt.Sprintf(`
INSERT INTO %s (id, token, name, lat, lon, region, owner, approved)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, r.table)
	_, err := r.db.ExecContext(ctx, query,
		station.ID, station.Token, station.Name, station.Lat, station.Lon,
		station.Region, station.Owner, station.Approved)
	return err
}

// ByID loads a station including its token, nil when absent.
func (r *StationRepository) ByID(ctx context.Context, id string) (*registry.Station, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("station repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, COALESCE(token, ''), name, lat, lon, region, owner, approved
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var station registry.Station
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&station.ID,
		&station.Token,
		&station.Name,
		&station.Lat,
		&station.Lon,
		&station.Region,
		&station.Owner,
		&station.Approved,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &station, nil
}

// Update replaces the mutable station fields. Owner and token are immutable
// here; the token changes only through SetToken.
func (r *StationRepository) Update(ctx context.Context, station *registry.Station) error {
	if r == nil || r.db == nil {
		return errors.New("station repo: nil db")
	}
	if station == nil {
		return errors.New("station repo: nil station")
	}
	if err := station.Validate(); err != nil {
		return err
	}
	query := fmt.Sprintf(`
UPDATE %s
SET name = $1, lat = $2, lon = $3, region = $4, approved = $5
WHERE id = $6`, r.table)
	_, err := r.db.ExecContext(ctx, query,
		station.Name, station.Lat, station.Lon, station.Region, station.Approved, station.ID)
	return err
}

// Delete removes a station by id.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("station repo: nil db")
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// List returns stations matching the filter. Tokens are never selected.
func (r *StationRepository) List(ctx context.Context, filter registry.StationFilter) ([]registry.Station, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("station repo: nil db")
	}
	query, args := buildStationListQuery(r.table, filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []registry.Station
	for rows.Next() {
		var station registry.Station
		if err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.Lat,
			&station.Lon,
			&station.Region,
			&station.Owner,
			&station.Approved,
		); err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}
	return stations, rows.Err()
}

// buildStationListQuery composes the filtered listing. Placeholders are
// appended in lockstep with the args slice so the $n indices always match.
func buildStationListQuery(table string, filter registry.StationFilter) (string, []any) {
	var predicates []string
	var args []any
	if filter.Owner != "" {
		args = append(args, filter.Owner)
		predicates = append(predicates, fmt.Sprintf("owner = $%d", len(args)))
	}
	if filter.Region != 0 {
		args = append(args, filter.Region)
		predicates = append(predicates, fmt.Sprintf("region = $%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT id, name, lat, lon, region, owner, approved FROM %s`, table)
	if len(predicates) > 0 {
		query += " WHERE " + strings.Join(predicates, " AND ")
	}
	query += " ORDER BY name"
	return query, args
}

// SetApproved flips the approval flag.
func (r *StationRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	if r == nil || r.db == nil {
		return errors.New("station repo: nil db")
	}
	query := fmt.Sprintf(`UPDATE %s SET approved = $1 WHERE id = $2`, r.table)
	_, err := r.db.ExecContext(ctx, query, approved, id)
	return err
}

// SetToken stores a freshly issued bearer token.
func (r *StationRepository) SetToken(ctx context.Context, id string, token string) error {
	if r == nil || r.db == nil {
		return errors.New("station repo: nil db")
	}
	query := fmt.Sprintf(`UPDATE %s SET token = $1 WHERE id = $2`, r.table)
	_, err := r.db.ExecContext(ctx, query, token, id)
	return err
}
