// Package testutil provides test utilities for the books project: a migrated
// in-memory ledger database and a seeded chart of accounts per test.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/storage"
	"github.com/Veraticus/the-books-must-balance/internal/testutil/accounts"
)

// DefaultOwner is the owner test databases are seeded for.
const DefaultOwner model.Owner = "test-owner"

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage  *storage.SQLiteStorage
	t        *testing.T
	Owner    model.Owner
	Accounts accounts.Accounts
}

// SetupTestDB creates a new in-memory test database with no accounts.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithBuilder(t, nil)
}

// SetupTestDBWithBuilder creates a test database and seeds DefaultOwner's
// chart through an account builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithBuilder(t, func(b accounts.Builder) accounts.Builder {
//		return b.WithEndToEnd().WithAccount("Sales Income", model.AccountIncome)
//	})
func SetupTestDBWithBuilder(t *testing.T, configure func(accounts.Builder) accounts.Builder) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	builder := accounts.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	chart, err := builder.Build(ctx, store, DefaultOwner)
	if err != nil {
		t.Fatalf("failed to build accounts: %v", err)
	}

	return &TestDB{
		Storage:  store,
		Owner:    DefaultOwner,
		Accounts: chart,
		t:        t,
	}
}

// AccountID returns the ID of a seeded account or fails the test.
func (db *TestDB) AccountID(name string) string {
	db.t.Helper()
	return db.Accounts.ID(db.t, name)
}
