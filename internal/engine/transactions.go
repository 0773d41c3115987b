package engine

import (
	"context"
	"errors"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// CreateTransaction posts a balanced transaction. The store validates the
// entries and writes header and entries atomically.
func (l *Ledger) CreateTransaction(ctx context.Context, owner model.Owner, input model.TransactionInput) (*model.Transaction, error) {
	txn, err := l.storage.CreateTransaction(ctx, owner, input)
	if err != nil {
		l.logWriteFailure(ctx, err, "create transaction", owner, "")
		return nil, err
	}

	common.LogDebug(ctx, "posted transaction", common.Fields{
		"owner":   owner.String(),
		"id":      txn.ID,
		"entries": len(txn.Entries),
	})
	return txn, nil
}

// UpdateTransaction replaces a transaction's header and all of its entries.
// input.Version must be the version the caller last read.
func (l *Ledger) UpdateTransaction(ctx context.Context, owner model.Owner, id string, input model.TransactionInput) (*model.Transaction, error) {
	txn, err := l.storage.UpdateTransaction(ctx, owner, id, input)
	if err != nil {
		l.logWriteFailure(ctx, err, "update transaction", owner, id)
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction removes a transaction and its entries.
func (l *Ledger) DeleteTransaction(ctx context.Context, owner model.Owner, id string) error {
	return l.storage.DeleteTransaction(ctx, owner, id)
}

// GetTransaction returns a transaction with its entries.
func (l *Ledger) GetTransaction(ctx context.Context, owner model.Owner, id string) (*model.Transaction, error) {
	return l.storage.GetTransaction(ctx, owner, id)
}

// ListTransactions returns the owner's transactions in period, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, owner model.Owner, period model.Period) ([]model.LedgerTransaction, error) {
	return l.storage.ListLedgerTransactions(ctx, owner, period)
}

// logWriteFailure records failed mutations. Partial writes are logged loudly
// since they need a person to look at the database.
func (l *Ledger) logWriteFailure(ctx context.Context, err error, op string, owner model.Owner, id string) {
	fields := common.Fields{"operation": op, "owner": owner.String()}
	if id != "" {
		fields["transaction_id"] = id
	}

	var partial *common.PartialWriteError
	switch {
	case errors.As(err, &partial):
		fields["transaction_id"] = partial.TransactionID
		common.LogError(ctx, err, "partial ledger write, manual check required", fields)
	case errors.Is(err, common.ErrImbalanced), errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrInvalidAccount), errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrDuplicateEntry):
		common.LogDebug(ctx, "rejected ledger write", fields)
	default:
		common.LogError(ctx, err, "ledger write failed", fields)
	}
}
