// Package engine implements the ledger service: validated, atomic posting of
// transactions, the chart of accounts, and the read paths built on the ledger.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/the-books-must-balance/internal/classification"
	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/pattern"
	"github.com/Veraticus/the-books-must-balance/internal/service"
)

// Ledger orchestrates the store, the vendor mapper and the evidence resolver.
type Ledger struct {
	storage  service.Storage
	mapper   pattern.Suggester
	detector *classification.Detector
	evidence service.EvidenceResolver
	workers  int
}

// Config holds configuration options for the ledger service.
type Config struct {
	// Evidence resolves receipt references to signed URLs. Nil disables
	// evidence links.
	Evidence service.EvidenceResolver
	// Workers bounds how many account balances are computed at once.
	Workers int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers: 4,
	}
}

// New creates a ledger service with the default configuration.
func New(storage service.Storage) *Ledger {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates a ledger service with custom configuration.
func NewWithConfig(storage service.Storage, config Config) *Ledger {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Ledger{
		storage:  storage,
		mapper:   pattern.NewMapper(storage),
		detector: classification.Default(),
		evidence: config.Evidence,
		workers:  config.Workers,
	}
}

// CreateAccount adds an account to the owner's chart.
func (l *Ledger) CreateAccount(ctx context.Context, owner model.Owner, name string, accountType model.AccountType) (*model.Account, error) {
	return l.storage.CreateAccount(ctx, owner, name, accountType)
}

// GetAccount returns one account.
func (l *Ledger) GetAccount(ctx context.Context, owner model.Owner, id string) (*model.Account, error) {
	return l.storage.GetAccount(ctx, owner, id)
}

// ResolveAccount accepts either an account ID or an account name.
func (l *Ledger) ResolveAccount(ctx context.Context, owner model.Owner, ref string) (*model.Account, error) {
	account, err := l.storage.GetAccount(ctx, owner, ref)
	if errors.Is(err, common.ErrNotFound) {
		return l.storage.GetAccountByName(ctx, owner, ref)
	}
	return account, err
}

// ListAccounts returns the owner's chart of accounts.
func (l *Ledger) ListAccounts(ctx context.Context, owner model.Owner) ([]model.Account, error) {
	return l.storage.ListAccounts(ctx, owner)
}

// RenameAccount changes an account's name; its type is fixed.
func (l *Ledger) RenameAccount(ctx context.Context, owner model.Owner, id, name string) error {
	return l.storage.RenameAccount(ctx, owner, id, name)
}

// DeleteAccount removes an account with no journal entries.
func (l *Ledger) DeleteAccount(ctx context.Context, owner model.Owner, id string) error {
	err := l.storage.DeleteAccount(ctx, owner, id)
	var inUse *common.AccountInUseError
	if errors.As(err, &inUse) {
		slog.Debug("refused to delete account in use",
			"owner", owner,
			"account", id,
			"entries", inUse.EntryCount)
	}
	return err
}

// SeedDefaultAccounts gives a new owner the starter chart. It is a no-op for
// an owner with any account.
func (l *Ledger) SeedDefaultAccounts(ctx context.Context, owner model.Owner) ([]model.Account, error) {
	return l.storage.SeedDefaultAccounts(ctx, owner)
}

// CreatePaymentMethod attaches a card to an account.
func (l *Ledger) CreatePaymentMethod(ctx context.Context, owner model.Owner, pm *model.PaymentMethod) error {
	return l.storage.CreatePaymentMethod(ctx, owner, pm)
}

// UpdatePaymentMethod edits a card.
func (l *Ledger) UpdatePaymentMethod(ctx context.Context, owner model.Owner, pm *model.PaymentMethod) error {
	return l.storage.UpdatePaymentMethod(ctx, owner, pm)
}

// DeletePaymentMethod removes a card.
func (l *Ledger) DeletePaymentMethod(ctx context.Context, owner model.Owner, id string) error {
	return l.storage.DeletePaymentMethod(ctx, owner, id)
}

// ListPaymentMethods lists cards, optionally for a single account.
func (l *Ledger) ListPaymentMethods(ctx context.Context, owner model.Owner, accountID string) ([]model.PaymentMethod, error) {
	return l.storage.ListPaymentMethods(ctx, owner, accountID)
}
