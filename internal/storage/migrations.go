package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/smartshop/internal/category"
	"github.com/Veraticus/smartshop/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

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
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY,
					username TEXT NOT NULL DEFAULT '',
					created_at DATETIME NOT NULL,
					last_active DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS receipts (
					id TEXT PRIMARY KEY,
					user_id INTEGER NOT NULL,
					store_name TEXT,
					purchase_date DATETIME NOT NULL,
					grand_total REAL,
					raw_text TEXT NOT NULL DEFAULT '',
					confidence REAL NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL,
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
				`CREATE INDEX idx_receipts_user ON receipts(user_id)`,

				`CREATE TABLE IF NOT EXISTS purchases (
					id TEXT PRIMARY KEY,
					user_id INTEGER NOT NULL,
					receipt_id TEXT,
					item_name TEXT NOT NULL,
					category TEXT NOT NULL,
					quantity REAL NOT NULL CHECK (quantity > 0),
					unit TEXT NOT NULL,
					price REAL CHECK (price IS NULL OR price >= 0),
					purchase_date DATETIME NOT NULL,
					raw_data TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id),
					FOREIGN KEY (receipt_id) REFERENCES receipts(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_purchases_user ON purchases(user_id)`,
				`CREATE INDEX idx_purchases_item ON purchases(item_name)`,
				`CREATE INDEX idx_purchases_category ON purchases(category)`,
				`CREATE INDEX idx_purchases_date ON purchases(purchase_date)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Category keyword table seeded with defaults",
		Up: func(tx *sql.Tx) error {
			if err := execAll(tx,
				`CREATE TABLE IF NOT EXISTS categories (
					name TEXT PRIMARY KEY,
					position INTEGER NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS category_keywords (
					category TEXT NOT NULL,
					keyword TEXT NOT NULL,
					position INTEGER NOT NULL,
					PRIMARY KEY (category, keyword),
					FOREIGN KEY (category) REFERENCES categories(name) ON DELETE CASCADE
				)`,
			); err != nil {
				return err
			}

			// Position follows the default table so ties resolve the same way
			// as the built-in classifier.
			defaults := category.DefaultTable()
			for i, entry := range defaults {
				if _, err := tx.Exec(`INSERT INTO categories (name, position) VALUES (?, ?)`, entry.Category, i); err != nil {
					return fmt.Errorf("failed to seed category %s: %w", entry.Category, err)
				}
				if err := replaceKeywordsTx(tx, entry.Category, entry.Keywords); err != nil {
					return err
				}
			}
			for _, name := range model.AllCategories() {
				if _, err := tx.Exec(
					`INSERT OR IGNORE INTO categories (name, position) VALUES (?, ?)`, name, len(defaults),
				); err != nil {
					return fmt.Errorf("failed to seed category %s: %w", name, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Per-user preferences",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS user_preferences (
					user_id INTEGER PRIMARY KEY,
					diet TEXT NOT NULL DEFAULT '',
					language TEXT NOT NULL DEFAULT '',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
