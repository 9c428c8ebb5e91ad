package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		timezone TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		id BIGSERIAL PRIMARY KEY,
		location_id BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS datapoints (
		id BIGSERIAL PRIMARY KEY,
		menu_id BIGINT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		value DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_datapoints_menu_date ON datapoints (menu_id, date)`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("repository: migration %d: %w", i, err)
		}
	}
	return nil
}
