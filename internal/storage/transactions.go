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

// CreateTransaction validates the entries and writes the header and every
// entry in one database transaction. Nothing is visible to readers unless all
// of it commits.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, owner model.Owner, input model.TransactionInput) (*model.Transaction, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}
	if err := ledger.ValidateEntries(input.Entries); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &model.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		Date:        truncateDay(input.Date),
		Description: strings.TrimSpace(input.Description),
		EvidenceRef: strings.TrimSpace(input.EvidenceRef),
		ExternalID:  strings.TrimSpace(input.ExternalID),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	headerWritten := false
	fail := func(cause error) (*model.Transaction, error) {
		rbErr := tx.Rollback()
		if headerWritten && rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("Rollback failed after header write",
				"transaction_id", txn.ID,
				"error", rbErr)
			return nil, &common.PartialWriteError{TransactionID: txn.ID, Err: errors.Join(cause, rbErr)}
		}
		return nil, cause
	}

	if err := checkAccountsOwned(ctx, tx, owner, input.Entries); err != nil {
		return fail(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, owner_id, date, description, evidence_ref, external_id,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, owner, formatDate(txn.Date), txn.Description, nullString(txn.EvidenceRef),
		nullString(txn.ExternalID), txn.Version, txn.CreatedAt, txn.UpdatedAt)
	if isUniqueViolation(err) {
		return fail(fmt.Errorf("%w: external id %q already imported", common.ErrDuplicateEntry, txn.ExternalID))
	}
	if err != nil {
		return fail(fmt.Errorf("failed to insert transaction: %w", err))
	}
	headerWritten = true

	entries, err := insertEntries(ctx, tx, txn.ID, input.Entries)
	if err != nil {
		return fail(err)
	}

	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("failed to commit transaction: %w", err))
	}

	txn.Entries = entries
	slog.Debug("created transaction", "owner", owner, "id", txn.ID, "entries", len(entries))
	return txn, nil
}

// UpdateTransaction re-validates the entries, overwrites the header and
// replaces every entry. input.Version must match the stored version or the
// update is rejected with common.ErrConflict.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, owner model.Owner, id string, input model.TransactionInput) (*model.Transaction, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}
	if err := ledger.ValidateEntries(input.Entries); err != nil {
		return nil, err
	}

	var updated *model.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkAccountsOwned(ctx, tx, owner, input.Entries); err != nil {
			return err
		}

		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET date = ?, description = ?, evidence_ref = ?, version = version + 1, updated_at = ?
			WHERE id = ? AND owner_id = ? AND version = ?
		`, formatDate(input.Date), strings.TrimSpace(input.Description),
			nullString(strings.TrimSpace(input.EvidenceRef)), now, id, owner, input.Version)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return versionMismatch(ctx, tx, owner, id, input.Version)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE transaction_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear journal entries: %w", err)
		}
		if _, err := insertEntries(ctx, tx, id, input.Entries); err != nil {
			return err
		}

		updated, err = getTransaction(ctx, tx, owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("updated transaction", "owner", owner, "id", id, "version", updated.Version)
	return updated, nil
}

// versionMismatch explains why a versioned update touched no rows.
func versionMismatch(ctx context.Context, q queryable, owner model.Owner, id string, expected int) error {
	var current int
	err := q.QueryRowContext(ctx, `
		SELECT version FROM transactions WHERE id = ? AND owner_id = ?
	`, id, owner).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("transaction %w", common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read transaction version: %w", err)
	}
	return fmt.Errorf("%w: transaction %s is at version %d, update was based on version %d",
		common.ErrConflict, id, current, expected)
}

// DeleteTransaction removes a transaction; its entries cascade.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, owner model.Owner, id string) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND owner_id = ?
	`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireAffected(result, "transaction")
}

// GetTransaction returns a transaction with its entries in posting order.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, owner model.Owner, id string) (*model.Transaction, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getTransaction(ctx, s.db, owner, id)
}

func getTransaction(ctx context.Context, q queryable, owner model.Owner, id string) (*model.Transaction, error) {
	var (
		txn         model.Transaction
		date        string
		evidenceRef sql.NullString
		externalID  sql.NullString
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, owner_id, date, description, evidence_ref, external_id,
		       version, created_at, updated_at
		FROM transactions
		WHERE id = ? AND owner_id = ?
	`, id, owner).Scan(
		&txn.ID, &txn.OwnerID, &date, &txn.Description, &evidenceRef, &externalID,
		&txn.Version, &txn.CreatedAt, &txn.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if txn.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	txn.EvidenceRef = evidenceRef.String
	txn.ExternalID = externalID.String

	rows, err := q.QueryContext(ctx, `
		SELECT id, transaction_id, account_id, amount, side
		FROM journal_entries
		WHERE transaction_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Amount, &e.Side); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		txn.Entries = append(txn.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}

	return &txn, nil
}

// HasExternalID reports whether a statement line was already imported.
func (s *SQLiteStorage) HasExternalID(ctx context.Context, owner model.Owner, externalID string) (bool, error) {
	if err := validateScope(ctx, owner); err != nil {
		return false, err
	}
	if err := validateString(externalID, "externalID"); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE owner_id = ? AND external_id = ?)
	`, owner, externalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check external id: %w", err)
	}
	return exists, nil
}

// checkAccountsOwned rejects entries that reference accounts outside the
// owner's chart.
func checkAccountsOwned(ctx context.Context, q queryable, owner model.Owner, entries []model.EntryInput) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.AccountID] {
			continue
		}
		seen[e.AccountID] = true

		if err := requireOwnedAccount(ctx, q, owner, e.AccountID); err != nil {
			return err
		}
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, transactionID string, inputs []model.EntryInput) ([]model.JournalEntry, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO journal_entries (id, transaction_id, account_id, position, amount, side)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	entries := make([]model.JournalEntry, 0, len(inputs))
	for i, in := range inputs {
		e := model.JournalEntry{
			ID:            uuid.NewString(),
			TransactionID: transactionID,
			AccountID:     in.AccountID,
			Amount:        in.Amount,
			Side:          in.Side,
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.TransactionID, e.AccountID, i, e.Amount.String(), string(e.Side)); err != nil {
			return nil, fmt.Errorf("failed to insert journal entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
