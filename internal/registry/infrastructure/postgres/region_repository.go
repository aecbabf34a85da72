package postgres

import (
	"context"
	"database/sql"
	"errors"

	registry "transit-registry/internal/registry/domain"
)

// RegionRepository is a Postgres implementation for regions.
type RegionRepository struct {
	db DBTX
}

// NewRegionRepository constructs a repository.
func NewRegionRepository(db DBTX) *RegionRepository {
	return &RegionRepository{db: db}
}

// Create inserts a region and assigns its serial id.
func (r *RegionRepository) Create(ctx context.Context, region *registry.Region) error {
	if r == nil || r.db == nil {
		return errors.New("region repo: nil db")
	}
	if region == nil {
		return errors.New("region repo: nil region")
	}
	if err := region.Validate(); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `
INSERT INTO regions (name, transport_company, frequency, protocol)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		region.Name, region.TransportCompany, region.Frequency, region.Protocol).Scan(&region.ID)
}

// ByID loads a region, nil when absent.
func (r *RegionRepository) ByID(ctx context.Context, id int64) (*registry.Region, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("region repo: nil db")
	}
	var region registry.Region
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, transport_company, frequency, protocol
FROM regions
WHERE id = $1
LIMIT 1`, id).Scan(&region.ID, &region.Name, &region.TransportCompany, &region.Frequency, &region.Protocol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &region, nil
}

// Exists reports whether the region id is assigned.
func (r *RegionRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("region repo: nil db")
	}
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM regions WHERE id = $1 LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update replaces the region fields.
func (r *RegionRepository) Update(ctx context.Context, region *registry.Region) error {
	if r == nil || r.db == nil {
		return errors.New("region repo: nil db")
	}
	if region == nil {
		return errors.New("region repo: nil region")
	}
	if err := region.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE regions
SET name = $1, transport_company = $2, frequency = $3, protocol = $4
WHERE id = $5`,
		region.Name, region.TransportCompany, region.Frequency, region.Protocol, region.ID)
	return err
}

// Delete removes a region by id.
func (r *RegionRepository) Delete(ctx context.Context, id int64) error {
	if r == nil || r.db == nil {
		return errors.New("region repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM regions WHERE id = $1`, id)
	return err
}

// List returns all regions.
func (r *RegionRepository) List(ctx context.Context) ([]registry.Region, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("region repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, transport_company, frequency, protocol
FROM regions
ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []registry.Region
	for rows.Next() {
		var region registry.Region
		if err := rows.Scan(&region.ID, &region.Name, &region.TransportCompany, &region.Frequency, &region.Protocol); err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}
