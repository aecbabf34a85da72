package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
	id       UUID PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE,
	email    TEXT NOT NULL,
	password VARCHAR(100) NOT NULL,
	role     INT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS regions (
	id                SERIAL PRIMARY KEY,
	name              TEXT NOT NULL,
	transport_company TEXT NOT NULL,
	frequency         BIGINT NOT NULL,
	protocol          TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS stations (
	id       UUID PRIMARY KEY,
	token    VARCHAR(32),
	name     TEXT NOT NULL,
	lat      DOUBLE PRECISION NOT NULL,
	lon      DOUBLE PRECISION NOT NULL,
	region   INT NOT NULL REFERENCES regions(id),
	owner    UUID NOT NULL REFERENCES accounts(id),
	approved BOOLEAN NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
	id             TEXT PRIMARY KEY,
	actor          TEXT NOT NULL,
	role           TEXT NOT NULL,
	action         TEXT NOT NULL,
	resource_type  TEXT NOT NULL,
	resource_id    TEXT NOT NULL,
	metadata       JSONB,
	payload_digest TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
)`,
}

// Migrate creates the schema when absent. Statements are idempotent; a
// failure aborts startup.
func Migrate(ctx context.Context, db DBTX) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
