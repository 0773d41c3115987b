package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// StreamAccountEntries calls fn for every journal entry posted to one of the
// owner's accounts. fn runs while the rows are open and must not call back
// into the store.
func (s *SQLiteStorage) StreamAccountEntries(ctx context.Context, owner model.Owner, accountID string, fn func(model.JournalEntry) error) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: fn", ErrNilParameter)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT je.id, je.transaction_id, je.account_id, je.amount, je.side
		FROM journal_entries je
		JOIN accounts a ON a.id = je.account_id
		WHERE a.owner_id = ? AND je.account_id = ?
	`, owner, accountID)
	if err != nil {
		return fmt.Errorf("failed to query account entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Amount, &e.Side); err != nil {
			return fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

// StreamLedgerEntries calls fn for every entry whose transaction date falls in
// period, joined with its account and transaction header, oldest first.
func (s *SQLiteStorage) StreamLedgerEntries(ctx context.Context, owner model.Owner, period model.Period, fn func(model.LedgerEntry) error) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validatePeriod(period); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: fn", ErrNilParameter)
	}

	dateFilter, args := periodClause("t.date", period)
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.date, t.description, je.account_id, a.name, a.type, je.amount, je.side
		FROM journal_entries je
		JOIN transactions t ON t.id = je.transaction_id
		JOIN accounts a ON a.id = je.account_id
		WHERE t.owner_id = ?`+dateFilter+`
		ORDER BY t.date, t.created_at, t.id, je.position
	`, append([]any{owner}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			line model.LedgerEntry
			date string
		)
		if err := rows.Scan(&line.TransactionID, &date, &line.Description, &line.AccountID,
			&line.AccountName, &line.AccountType, &line.Amount, &line.Side); err != nil {
			return fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if line.Date, err = parseDate(date); err != nil {
			return err
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ListLedgerTransactions returns the owner's transactions in period, newest
// first, each with its entries resolved against the chart of accounts.
func (s *SQLiteStorage) ListLedgerTransactions(ctx context.Context, owner model.Owner, period model.Period) ([]model.LedgerTransaction, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	dateFilter, args := periodClause("t.date", period)
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.owner_id, t.date, t.description, t.evidence_ref, t.external_id,
		       t.version, t.created_at, t.updated_at,
		       je.id, je.account_id, a.name, a.type, je.amount, je.side
		FROM transactions t
		JOIN journal_entries je ON je.transaction_id = t.id
		JOIN accounts a ON a.id = je.account_id
		WHERE t.owner_id = ?`+dateFilter+`
		ORDER BY t.date DESC, t.created_at DESC, t.id, je.position
	`, append([]any{owner}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		result  []model.LedgerTransaction
		current *model.LedgerTransaction
	)
	for rows.Next() {
		var (
			header      model.Transaction
			date        string
			evidenceRef sql.NullString
			externalID  sql.NullString
			entry       model.JournalEntry
			line        model.LedgerEntry
		)
		if err := rows.Scan(
			&header.ID, &header.OwnerID, &date, &header.Description, &evidenceRef, &externalID,
			&header.Version, &header.CreatedAt, &header.UpdatedAt,
			&entry.ID, &entry.AccountID, &line.AccountName, &line.AccountType, &entry.Amount, &entry.Side,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		if current == nil || current.ID != header.ID {
			if current != nil {
				result = append(result, *current)
			}
			if header.Date, err = parseDate(date); err != nil {
				return nil, err
			}
			header.EvidenceRef = evidenceRef.String
			header.ExternalID = externalID.String
			current = &model.LedgerTransaction{Transaction: header}
		}

		entry.TransactionID = current.ID
		line.TransactionID = current.ID
		line.Date = current.Date
		line.Description = current.Description
		line.AccountID = entry.AccountID
		line.Amount = entry.Amount
		line.Side = entry.Side

		current.Entries = append(current.Entries, entry)
		current.Lines = append(current.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	if current != nil {
		result = append(result, *current)
	}
	return result, nil
}

func validatePeriod(period model.Period) error {
	if !period.Start.IsZero() && !period.End.IsZero() && period.End.Before(period.Start) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidDateRange,
			formatDate(period.Start), formatDate(period.End))
	}
	return nil
}
