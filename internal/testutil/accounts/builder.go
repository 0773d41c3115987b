// Package accounts provides test infrastructure for seeding a chart of
// accounts. It offers a fluent API so tests state the accounts they need by
// name and type and look them up afterwards.
//
// Example usage:
//
//	chart, err := accounts.NewBuilder(t).
//		WithDefaultChart().
//		WithAccount("Petty Cash", model.AccountAsset).
//		Build(ctx, store, owner)
package accounts

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/the-books-must-balance/internal/ledger"
	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// Creator is the slice of the store a builder needs.
type Creator interface {
	CreateAccount(ctx context.Context, owner model.Owner, name string, accountType model.AccountType) (*model.Account, error)
}

// Builder provides a fluent interface for constructing test accounts.
type Builder interface {
	// WithAccount adds a single account.
	WithAccount(name string, accountType model.AccountType) Builder

	// WithDefaultChart adds the eight accounts new owners are seeded with.
	WithDefaultChart() Builder

	// WithEndToEnd adds the Bank and Office Supplies pair used by scenario tests.
	WithEndToEnd() Builder

	// Build creates the accounts for owner in insertion order.
	Build(ctx context.Context, store Creator, owner model.Owner) (Accounts, error)
}

// Common account names used across tests.
const (
	Bank           = "Bank"
	OfficeSupplies = "Office Supplies"
	Sales          = "Sales Income"
	CreditCard     = "Credit Card"
	Equity         = "Owner's Equity"
)

// Accounts is a collection of created test accounts.
type Accounts []model.Account

// Find returns the account with the given name, or nil if not found.
func (a Accounts) Find(name string) *model.Account {
	for i := range a {
		if a[i].Name == name {
			return &a[i]
		}
	}
	return nil
}

// MustFind returns the account with the given name, or fails the test.
func (a Accounts) MustFind(t *testing.T, name string) model.Account {
	t.Helper()
	account := a.Find(name)
	if account == nil {
		t.Fatalf("account %q not found in test data", name)
	}
	return *account
}

// ID is shorthand for MustFind(t, name).ID.
func (a Accounts) ID(t *testing.T, name string) string {
	t.Helper()
	return a.MustFind(t, name).ID
}

type accountDef struct {
	name        string
	accountType model.AccountType
}

type accountBuilder struct {
	t    *testing.T
	seen map[string]bool
	defs []accountDef
}

// NewBuilder creates a new account builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &accountBuilder{t: t, seen: make(map[string]bool)}
}

func (b *accountBuilder) WithAccount(name string, accountType model.AccountType) Builder {
	if !b.seen[name] {
		b.seen[name] = true
		b.defs = append(b.defs, accountDef{name: name, accountType: accountType})
	}
	return b
}

func (b *accountBuilder) WithDefaultChart() Builder {
	for _, def := range ledger.DefaultChart {
		b.WithAccount(def.Name, def.Type)
	}
	return b
}

func (b *accountBuilder) WithEndToEnd() Builder {
	return b.WithAccount(Bank, model.AccountAsset).
		WithAccount(OfficeSupplies, model.AccountExpense)
}

func (b *accountBuilder) Build(ctx context.Context, store Creator, owner model.Owner) (Accounts, error) {
	b.t.Helper()

	result := make(Accounts, 0, len(b.defs))
	for _, s := range b.defs {
		created, err := store.CreateAccount(ctx, owner, s.name, s.accountType)
		if err != nil {
			return nil, fmt.Errorf("failed to create account %q: %w", s.name, err)
		}
		result = append(result, *created)
	}
	return result, nil
}
