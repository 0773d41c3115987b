// Package service defines the interfaces between the ledger engine and its
// persistence layer and external collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// Storage defines the contract for our persistence layer. Every method is
// scoped to a single owner and fails with common.ErrUnauthorized without one.
type Storage interface {
	// Account registry
	CreateAccount(ctx context.Context, owner model.Owner, name string, accountType model.AccountType) (*model.Account, error)
	GetAccount(ctx context.Context, owner model.Owner, id string) (*model.Account, error)
	GetAccountByName(ctx context.Context, owner model.Owner, name string) (*model.Account, error)
	ListAccounts(ctx context.Context, owner model.Owner) ([]model.Account, error)
	RenameAccount(ctx context.Context, owner model.Owner, id, name string) error
	DeleteAccount(ctx context.Context, owner model.Owner, id string) error
	SeedDefaultAccounts(ctx context.Context, owner model.Owner) ([]model.Account, error)

	// Payment methods
	CreatePaymentMethod(ctx context.Context, owner model.Owner, pm *model.PaymentMethod) error
	UpdatePaymentMethod(ctx context.Context, owner model.Owner, pm *model.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, owner model.Owner, id string) error
	ListPaymentMethods(ctx context.Context, owner model.Owner, accountID string) ([]model.PaymentMethod, error)
	FindPaymentMethodByLastFour(ctx context.Context, owner model.Owner, lastFour string) (*model.PaymentMethod, error)

	// Ledger store
	CreateTransaction(ctx context.Context, owner model.Owner, input model.TransactionInput) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, owner model.Owner, id string, input model.TransactionInput) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, owner model.Owner, id string) error
	GetTransaction(ctx context.Context, owner model.Owner, id string) (*model.Transaction, error)
	HasExternalID(ctx context.Context, owner model.Owner, externalID string) (bool, error)

	// Read paths
	StreamAccountEntries(ctx context.Context, owner model.Owner, accountID string, fn func(model.JournalEntry) error) error
	StreamLedgerEntries(ctx context.Context, owner model.Owner, period model.Period, fn func(model.LedgerEntry) error) error
	ListLedgerTransactions(ctx context.Context, owner model.Owner, period model.Period) ([]model.LedgerTransaction, error)

	// Vendor mappings
	CreateVendorMapping(ctx context.Context, owner model.Owner, pattern, accountID string) (*model.VendorMapping, error)
	GetVendorMappings(ctx context.Context, owner model.Owner) ([]model.VendorMapping, error)
	DeleteVendorMapping(ctx context.Context, owner model.Owner, id int64) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// EvidenceResolver turns a stored evidence reference into a time-limited
// retrieval URL. It is provided by the object-storage collaborator.
type EvidenceResolver interface {
	SignedURL(ctx context.Context, ref string, ttl time.Duration) (string, error)
}
