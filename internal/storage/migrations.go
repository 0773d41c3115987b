package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial ledger schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					owner_id TEXT NOT NULL,
					name TEXT NOT NULL COLLATE NOCASE,
					type TEXT NOT NULL CHECK (type IN ('ASSET', 'LIABILITY', 'EQUITY', 'INCOME', 'EXPENSE')),
					created_at DATETIME NOT NULL,
					UNIQUE (owner_id, name)
				)`,
				`CREATE INDEX idx_accounts_owner ON accounts(owner_id)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					owner_id TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					evidence_ref TEXT,
					version INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_transactions_owner_date ON transactions(owner_id, date)`,

				`CREATE TABLE IF NOT EXISTS journal_entries (
					id TEXT PRIMARY KEY,
					transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
					account_id TEXT NOT NULL REFERENCES accounts(id),
					position INTEGER NOT NULL,
					amount TEXT NOT NULL,
					side TEXT NOT NULL CHECK (side IN ('DEBIT', 'CREDIT'))
				)`,
				`CREATE INDEX idx_journal_entries_transaction ON journal_entries(transaction_id, position)`,
				`CREATE INDEX idx_journal_entries_account ON journal_entries(account_id)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Add payment methods",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS payment_methods (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
					kind TEXT NOT NULL CHECK (kind IN ('DEBIT_CARD', 'CREDIT_CARD')),
					name TEXT NOT NULL,
					last_four TEXT NOT NULL CHECK (length(last_four) = 4),
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_payment_methods_account ON payment_methods(account_id)`,
				`CREATE INDEX idx_payment_methods_last_four ON payment_methods(last_four)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Add vendor mappings",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS vendor_mappings (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					owner_id TEXT NOT NULL,
					pattern TEXT NOT NULL,
					account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_vendor_mappings_owner ON vendor_mappings(owner_id, id)`,
			})
		},
	},
	{
		Version:     4,
		Description: "Track imported statement lines",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`ALTER TABLE transactions ADD COLUMN external_id TEXT`,
				`CREATE UNIQUE INDEX idx_transactions_external ON transactions(owner_id, external_id)
					WHERE external_id IS NOT NULL`,
			})
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
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

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
