package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS vehicle_types (
					type_id INTEGER PRIMARY KEY,
					brand TEXT NOT NULL,
					model TEXT NOT NULL,
					seats INTEGER,
					speed INTEGER DEFAULT 0,
					luggage INTEGER DEFAULT 0,
					doors INTEGER DEFAULT 4,
					automatic BOOLEAN DEFAULT 1
				)`,

				`CREATE TABLE IF NOT EXISTS locations (
					location_id INTEGER PRIMARY KEY,
					street TEXT,
					city TEXT NOT NULL,
					state TEXT,
					zip_code TEXT,
					country TEXT
				)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY,
					type TEXT,
					email_address TEXT,
					phone_number TEXT,
					member_id INTEGER
				)`,

				`CREATE TABLE IF NOT EXISTS customers (
					member_id INTEGER PRIMARY KEY,
					first_name TEXT,
					last_name TEXT,
					age INTEGER
				)`,

				`CREATE TABLE IF NOT EXISTS rentals (
					reservation_id INTEGER PRIMARY KEY,
					account_id INTEGER,
					car_type_id INTEGER NOT NULL,
					pickup_time DATETIME NOT NULL,
					dropoff_time DATETIME NOT NULL,
					pickup_location_id INTEGER NOT NULL,
					dropoff_location_id INTEGER NOT NULL,
					rental_price_per_day REAL NOT NULL,
					insurance_plan_price_per_day REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_rentals_car_type ON rentals(car_type_id)`,
				`CREATE INDEX idx_rentals_pickup_location ON rentals(pickup_location_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index rentals by pickup time for incremental fetches",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_rentals_pickup_time ON rentals(pickup_time)`); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
			return nil
		},
	},
}

// Migrate runs all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version of the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.schemaVersion(ctx)
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}
