package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/ledger"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice model.Owner = "alice"
	bob   model.Owner = "bob"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func createAccount(t *testing.T, store *SQLiteStorage, owner model.Owner, name string, typ model.AccountType) *model.Account {
	t.Helper()
	account, err := store.CreateAccount(context.Background(), owner, name, typ)
	require.NoError(t, err)
	return account
}

func day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// twoLeg builds a balanced debit/credit pair.
func twoLeg(date, description, debitAccount, creditAccount, value string) model.TransactionInput {
	return model.TransactionInput{
		Date:        day(date),
		Description: description,
		Entries: []model.EntryInput{
			{AccountID: debitAccount, Amount: amount(value), Side: model.SideDebit},
			{AccountID: creditAccount, Amount: amount(value), Side: model.SideCredit},
		},
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "dir", "books.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
}

func TestCreateAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	account, err := store.CreateAccount(ctx, alice, "  Bank  ", model.AccountAsset)
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "Bank", account.Name)
	assert.Equal(t, alice, account.OwnerID)

	got, err := store.GetAccount(ctx, alice, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Name, got.Name)
	assert.Equal(t, model.AccountAsset, got.Type)

	byName, err := store.GetAccountByName(ctx, alice, "bank")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byName.ID)

	tests := []struct {
		wantErr error
		name    string
		account string
		owner   model.Owner
		typ     model.AccountType
	}{
		{name: "duplicate name ignores case", owner: alice, account: "BANK", typ: model.AccountAsset, wantErr: common.ErrDuplicateEntry},
		{name: "missing owner", owner: model.Anonymous, account: "Cash", typ: model.AccountAsset, wantErr: common.ErrUnauthorized},
		{name: "invalid type", owner: alice, account: "Cash", typ: "STOCK", wantErr: ErrInvalidAccountType},
		{name: "blank name", owner: alice, account: "  ", typ: model.AccountAsset, wantErr: ErrEmptyString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateAccount(ctx, tt.owner, tt.account, tt.typ)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Another owner may reuse the name.
	_, err = store.CreateAccount(ctx, bob, "Bank", model.AccountAsset)
	assert.NoError(t, err)
}

func TestAccountsAreOwnerScoped(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	account := createAccount(t, store, alice, "Bank", model.AccountAsset)

	_, err := store.GetAccount(ctx, bob, account.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.RenameAccount(ctx, bob, account.ID, "Stolen"), common.ErrNotFound)
	assert.ErrorIs(t, store.DeleteAccount(ctx, bob, account.ID), common.ErrNotFound)

	accounts, err := store.ListAccounts(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = store.ListAccounts(ctx, model.Anonymous)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRenameAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bank := createAccount(t, store, alice, "Bank", model.AccountAsset)
	createAccount(t, store, alice, "Cash", model.AccountAsset)

	require.NoError(t, store.RenameAccount(ctx, alice, bank.ID, "Checking"))
	got, err := store.GetAccount(ctx, alice, bank.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)
	assert.Equal(t, model.AccountAsset, got.Type)

	assert.ErrorIs(t, store.RenameAccount(ctx, alice, bank.ID, "cash"), common.ErrDuplicateEntry)
}

func TestDeleteAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bank := createAccount(t, store, alice, "Bank", model.AccountAsset)
	supplies := createAccount(t, store, alice, "Office Supplies", model.AccountExpense)
	spare := createAccount(t, store, alice, "Spare", model.AccountExpense)

	for _, value := range []string{"10", "20"} {
		_, err := store.CreateTransaction(ctx, alice, twoLeg("2024-01-15", "Paper", supplies.ID, bank.ID, value))
		require.NoError(t, err)
	}

	err := store.DeleteAccount(ctx, alice, supplies.ID)
	var inUse *common.AccountInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 2, inUse.EntryCount)
	assert.ErrorIs(t, err, common.ErrAccountInUse)
	assert.Contains(t, err.Error(), "2 journal entries")

	require.NoError(t, store.DeleteAccount(ctx, alice, spare.ID))
	_, err = store.GetAccount(ctx, alice, spare.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSeedDefaultAccounts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created, err := store.SeedDefaultAccounts(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, created, len(ledger.DefaultChart))

	again, err := store.SeedDefaultAccounts(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, again)

	accounts, err := store.ListAccounts(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, accounts, 8)
	assert.Equal(t, model.AccountAsset, accounts[0].Type)
	assert.Equal(t, model.AccountExpense, accounts[len(accounts)-1].Type)

	// An owner with any account is left alone.
	createAccount(t, store, bob, "Wallet", model.AccountAsset)
	created, err = store.SeedDefaultAccounts(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestPaymentMethods(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bank := createAccount(t, store, alice, "Bank", model.AccountAsset)
	card := createAccount(t, store, alice, "Credit Card", model.AccountLiability)
	other := createAccount(t, store, bob, "Bob Bank", model.AccountAsset)

	debit := &model.PaymentMethod{AccountID: bank.ID, Kind: model.KindDebitCard, Name: "Debit", LastFour: "1234"}
	require.NoError(t, store.CreatePaymentMethod(ctx, alice, debit))
	assert.NotEmpty(t, debit.ID)

	visa := &model.PaymentMethod{AccountID: card.ID, Kind: model.KindCreditCard, Name: "Visa", LastFour: "9876"}
	require.NoError(t, store.CreatePaymentMethod(ctx, alice, visa))

	t.Run("rejects malformed digits", func(t *testing.T) {
		for _, digits := range []string{"123", "12345", "12a4", ""} {
			pm := &model.PaymentMethod{AccountID: bank.ID, Kind: model.KindDebitCard, Name: "Bad", LastFour: digits}
			assert.ErrorIs(t, store.CreatePaymentMethod(ctx, alice, pm), ErrInvalidPaymentMethod, digits)
		}
	})

	t.Run("rejects another owner's account", func(t *testing.T) {
		pm := &model.PaymentMethod{AccountID: other.ID, Kind: model.KindDebitCard, Name: "Sneaky", LastFour: "0000"}
		assert.ErrorIs(t, store.CreatePaymentMethod(ctx, alice, pm), common.ErrInvalidAccount)
	})

	all, err := store.ListPaymentMethods(ctx, alice, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onCard, err := store.ListPaymentMethods(ctx, alice, card.ID)
	require.NoError(t, err)
	require.Len(t, onCard, 1)
	assert.Equal(t, "Visa", onCard[0].Name)

	found, err := store.FindPaymentMethodByLastFour(ctx, alice, "9876")
	require.NoError(t, err)
	assert.Equal(t, card.ID, found.AccountID)

	_, err = store.FindPaymentMethodByLastFour(ctx, bob, "9876")
	assert.ErrorIs(t, err, common.ErrNotFound)

	visa.Name = "Visa Rewards"
	visa.LastFour = "5555"
	require.NoError(t, store.UpdatePaymentMethod(ctx, alice, visa))
	found, err = store.FindPaymentMethodByLastFour(ctx, alice, "5555")
	require.NoError(t, err)
	assert.Equal(t, "Visa Rewards", found.Name)

	assert.ErrorIs(t, store.DeletePaymentMethod(ctx, bob, debit.ID), common.ErrNotFound)
	require.NoError(t, store.DeletePaymentMethod(ctx, alice, debit.ID))

	// Deleting the card leaves its account in place.
	_, err = store.GetAccount(ctx, alice, bank.ID)
	assert.NoError(t, err)

	// Deleting an account takes its cards with it.
	require.NoError(t, store.DeleteAccount(ctx, alice, card.ID))
	all, err = store.ListPaymentMethods(ctx, alice, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNilContextIsRejected(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // exercising the nil guard
	_, err := store.ListAccounts(nil, alice)
	assert.True(t, errors.Is(err, ErrNilContext))
}
