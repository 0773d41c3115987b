package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/google/uuid"
)

// Payment methods have no owner column; ownership flows through the account.
const paymentMethodSelect = `
	SELECT pm.id, pm.account_id, pm.kind, pm.name, pm.last_four, pm.created_at
	FROM payment_methods pm
	JOIN accounts a ON a.id = pm.account_id
`

// CreatePaymentMethod attaches a card to one of the owner's accounts. The ID
// and CreatedAt fields of pm are filled in.
func (s *SQLiteStorage) CreatePaymentMethod(ctx context.Context, owner model.Owner, pm *model.PaymentMethod) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validatePaymentMethod(pm); err != nil {
		return err
	}
	if err := requireOwnedAccount(ctx, s.db, owner, pm.AccountID); err != nil {
		return err
	}

	pm.ID = uuid.NewString()
	pm.Name = strings.TrimSpace(pm.Name)
	pm.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_methods (id, account_id, kind, name, last_four, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, pm.ID, pm.AccountID, pm.Kind, pm.Name, pm.LastFour, pm.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

// UpdatePaymentMethod edits a card in place. It may move to another account
// the owner holds.
func (s *SQLiteStorage) UpdatePaymentMethod(ctx context.Context, owner model.Owner, pm *model.PaymentMethod) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validatePaymentMethod(pm); err != nil {
		return err
	}
	if err := validateString(pm.ID, "id"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireOwnedAccount(ctx, tx, owner, pm.AccountID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE payment_methods
			SET account_id = ?, kind = ?, name = ?, last_four = ?
			WHERE id = ? AND account_id IN (SELECT id FROM accounts WHERE owner_id = ?)
		`, pm.AccountID, pm.Kind, strings.TrimSpace(pm.Name), pm.LastFour, pm.ID, owner)
		if err != nil {
			return fmt.Errorf("failed to update payment method: %w", err)
		}
		return requireAffected(result, "payment method")
	})
}

// DeletePaymentMethod removes a card. The account is untouched.
func (s *SQLiteStorage) DeletePaymentMethod(ctx context.Context, owner model.Owner, id string) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM payment_methods
		WHERE id = ? AND account_id IN (SELECT id FROM accounts WHERE owner_id = ?)
	`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return requireAffected(result, "payment method")
}

// ListPaymentMethods returns the owner's cards. An empty accountID lists
// every card the owner holds.
func (s *SQLiteStorage) ListPaymentMethods(ctx context.Context, owner model.Owner, accountID string) ([]model.PaymentMethod, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}

	query := paymentMethodSelect + ` WHERE a.owner_id = ?`
	args := []any{owner}
	if accountID != "" {
		query += ` AND pm.account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY pm.name, pm.last_four`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var methods []model.PaymentMethod
	for rows.Next() {
		var pm model.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.AccountID, &pm.Kind, &pm.Name, &pm.LastFour, &pm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment methods: %w", err)
	}
	return methods, nil
}

// FindPaymentMethodByLastFour resolves a card number suffix, as read off a
// receipt, to the owner's card. The oldest card wins if several share digits.
func (s *SQLiteStorage) FindPaymentMethodByLastFour(ctx context.Context, owner model.Owner, lastFour string) (*model.PaymentMethod, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	if err := ValidateLastFour(lastFour); err != nil {
		return nil, err
	}

	var pm model.PaymentMethod
	err := s.db.QueryRowContext(ctx, paymentMethodSelect+`
		WHERE a.owner_id = ? AND pm.last_four = ?
		ORDER BY pm.created_at
		LIMIT 1
	`, owner, lastFour).Scan(&pm.ID, &pm.AccountID, &pm.Kind, &pm.Name, &pm.LastFour, &pm.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment method %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method: %w", err)
	}
	return &pm, nil
}

func requireOwnedAccount(ctx context.Context, q queryable, owner model.Owner, accountID string) error {
	var exists bool
	if err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ? AND owner_id = ?)
	`, accountID, owner).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: unknown account %s", common.ErrInvalidAccount, accountID)
	}
	return nil
}
