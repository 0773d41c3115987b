package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/ledger"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/google/uuid"
)

const accountColumns = `id, owner_id, name, type, created_at`

// CreateAccount adds an account to the owner's chart.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, owner model.Owner, name string, accountType model.AccountType) (*model.Account, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateAccount(name, accountType); err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Name:      name,
		Type:      accountType,
		CreatedAt: time.Now().UTC(),
	}
	if err := insertAccount(ctx, s.db, account); err != nil {
		return nil, err
	}

	slog.Debug("created account", "owner", owner, "name", name, "type", accountType)
	return account, nil
}

func insertAccount(ctx context.Context, q queryable, account *model.Account) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`, account.ID, account.OwnerID, account.Name, account.Type, account.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: account %q already exists", common.ErrDuplicateEntry, account.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccount returns one of the owner's accounts.
func (s *SQLiteStorage) GetAccount(ctx context.Context, owner model.Owner, id string) (*model.Account, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return scanAccount(s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = ? AND owner_id = ?
	`, id, owner))
}

// GetAccountByName looks an account up by its name, ignoring case.
func (s *SQLiteStorage) GetAccountByName(ctx context.Context, owner model.Owner, name string) (*model.Account, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return scanAccount(s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE owner_id = ? AND name = ?
	`, owner, strings.TrimSpace(name)))
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	var account model.Account
	err := row.Scan(&account.ID, &account.OwnerID, &account.Name, &account.Type, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// ListAccounts returns the owner's chart of accounts grouped by type.
func (s *SQLiteStorage) ListAccounts(ctx context.Context, owner model.Owner) ([]model.Account, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE owner_id = ?
		ORDER BY CASE type
			WHEN 'ASSET' THEN 1
			WHEN 'LIABILITY' THEN 2
			WHEN 'EQUITY' THEN 3
			WHEN 'INCOME' THEN 4
			ELSE 5
		END, name
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		if err := rows.Scan(&account.ID, &account.OwnerID, &account.Name, &account.Type, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// RenameAccount changes an account's name. The type cannot change.
func (s *SQLiteStorage) RenameAccount(ctx context.Context, owner model.Owner, id, name string) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ? WHERE id = ? AND owner_id = ?
	`, name, id, owner)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: account %q already exists", common.ErrDuplicateEntry, name)
	}
	if err != nil {
		return fmt.Errorf("failed to rename account: %w", err)
	}
	return requireAffected(result, "account")
}

// DeleteAccount removes an account that no journal entry references. The
// returned *common.AccountInUseError carries the entry count otherwise.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, owner model.Owner, id string) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ? AND owner_id = ?)
		`, id, owner).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return fmt.Errorf("account %w", common.ErrNotFound)
		}

		var count int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM journal_entries WHERE account_id = ?
		`, id).Scan(&count); err != nil {
			return fmt.Errorf("failed to count journal entries: %w", err)
		}
		if count > 0 {
			return &common.AccountInUseError{AccountID: id, EntryCount: count}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ? AND owner_id = ?`, id, owner); err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Mappings pointing at the account were cascaded away.
	s.invalidateMappings(owner)
	return nil
}

// SeedDefaultAccounts creates the starter chart for an owner that has no
// accounts. It returns nothing when the owner already has any account.
func (s *SQLiteStorage) SeedDefaultAccounts(ctx context.Context, owner model.Owner) ([]model.Account, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}

	var created []model.Account
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE owner_id = ?`, owner).Scan(&count); err != nil {
			return fmt.Errorf("failed to count accounts: %w", err)
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, def := range ledger.DefaultChart {
			account := model.Account{
				ID:        uuid.NewString(),
				OwnerID:   owner,
				Name:      def.Name,
				Type:      def.Type,
				CreatedAt: now,
			}
			if err := insertAccount(ctx, tx, &account); err != nil {
				return err
			}
			created = append(created, account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		slog.Info("Seeded default accounts", "owner", owner, "count", len(created))
	}
	return created, nil
}

// requireAffected turns a zero-row update or delete into ErrNotFound.
func requireAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %w", what, common.ErrNotFound)
	}
	return nil
}
