package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/engine"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/storage"
	"github.com/Veraticus/the-books-must-balance/internal/testutil"
	"github.com/Veraticus/the-books-must-balance/internal/testutil/accounts"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app *fiber.App
	db  *testutil.TestDB
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.SetupTestDBWithBuilder(t, func(b accounts.Builder) accounts.Builder {
		return b.WithEndToEnd().WithAccount(accounts.Sales, model.AccountIncome)
	})
	server := NewServer(engine.New(db.Storage), DefaultConfig())
	return &testServer{app: server.App(), db: db}
}

func (s *testServer) do(t *testing.T, method, path string, owner model.Owner, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set(DefaultOwnerHeader, string(owner))
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (s *testServer) postPurchase(t *testing.T, date, amount string) model.Transaction {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/transactions", s.db.Owner, purchase(s.db, date, amount, amount))
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var txn model.Transaction
	require.NoError(t, json.Unmarshal(body, &txn))
	return txn
}

func purchase(db *testutil.TestDB, date, debit, credit string) fiber.Map {
	return fiber.Map{
		"date":        date,
		"description": "Staples",
		"entries": []fiber.Map{
			{"account_id": db.AccountID(accounts.OfficeSupplies), "amount": debit, "side": "DEBIT"},
			{"account_id": db.AccountID(accounts.Bank), "amount": credit, "side": "CREDIT"},
		},
	}
}

func TestHealthNeedsNoOwner(t *testing.T) {
	s := setupServer(t)

	status, body := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestMissingOwnerIsUnauthorized(t *testing.T) {
	s := setupServer(t)

	for _, path := range []string{"/api/accounts", "/api/balances", "/api/transactions", "/api/reports/financial"} {
		t.Run(path, func(t *testing.T) {
			status, body := s.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, fiber.StatusUnauthorized, status)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, common.ErrUnauthorized.Error(), resp.Error)
		})
	}

	status, _ := s.do(t, http.MethodGet, "/api/accounts", "   ", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status, "blank owner fails closed")
}

func TestPostTransactionUpdatesBalances(t *testing.T) {
	s := setupServer(t)
	s.postPurchase(t, "2024-01-15", "42.50")

	status, body := s.do(t, http.MethodGet, "/api/balances", s.db.Owner, nil)
	require.Equal(t, fiber.StatusOK, status)

	var balances []model.AccountBalance
	require.NoError(t, json.Unmarshal(body, &balances))

	got := map[string]decimal.Decimal{}
	for _, b := range balances {
		got[b.Account.Name] = b.Balance
	}
	assert.True(t, got[accounts.Bank].Equal(decimal.RequireFromString("-42.50")))
	assert.True(t, got[accounts.OfficeSupplies].Equal(decimal.RequireFromString("42.50")))
	assert.True(t, got[accounts.Sales].IsZero())
}

func TestImbalanceReturnsTotals(t *testing.T) {
	s := setupServer(t)

	status, body := s.do(t, http.MethodPost, "/api/transactions", s.db.Owner, purchase(s.db, "2024-01-15", "42.50", "40"))
	require.Equal(t, fiber.StatusUnprocessableEntity, status)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Debits)
	require.NotNil(t, resp.Credits)
	require.NotNil(t, resp.Difference)
	assert.True(t, resp.Debits.Equal(decimal.RequireFromString("42.50")))
	assert.True(t, resp.Credits.Equal(decimal.RequireFromString("40")))
	assert.True(t, resp.Difference.Equal(decimal.RequireFromString("2.50")))

	status, body = s.do(t, http.MethodGet, "/api/transactions", s.db.Owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body), "rejected transaction leaves nothing behind")
}

func TestTransactionRequestValidation(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "bad date", body: purchase(s.db, "15/01/2024", "1", "1"), status: fiber.StatusBadRequest},
		{name: "single entry", body: fiber.Map{
			"date": "2024-01-15", "description": "x",
			"entries": []fiber.Map{{"account_id": s.db.AccountID(accounts.Bank), "amount": "1", "side": "DEBIT"}},
		}, status: fiber.StatusBadRequest},
		{name: "unknown account", body: fiber.Map{
			"date": "2024-01-15", "description": "x",
			"entries": []fiber.Map{
				{"account_id": "nope", "amount": "1", "side": "DEBIT"},
				{"account_id": s.db.AccountID(accounts.Bank), "amount": "1", "side": "CREDIT"},
			},
		}, status: fiber.StatusBadRequest},
		{name: "malformed json", body: "not an object", status: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, http.MethodPost, "/api/transactions", s.db.Owner, tt.body)
			assert.Equal(t, tt.status, status, string(body))
		})
	}
}

func TestUpdateTransactionVersioning(t *testing.T) {
	s := setupServer(t)
	txn := s.postPurchase(t, "2024-01-15", "42.50")
	path := "/api/transactions/" + txn.ID

	update := purchase(s.db, "2024-01-16", "50", "50")
	update["version"] = txn.Version

	status, body := s.do(t, http.MethodPut, path, s.db.Owner, update)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var updated model.Transaction
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, txn.Version+1, updated.Version)

	status, _ = s.do(t, http.MethodPut, path, s.db.Owner, update)
	assert.Equal(t, fiber.StatusConflict, status, "stale version is rejected")

	delete(update, "version")
	status, _ = s.do(t, http.MethodPut, path, s.db.Owner, update)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestOwnersAreIsolated(t *testing.T) {
	s := setupServer(t)
	txn := s.postPurchase(t, "2024-01-15", "42.50")

	status, _ := s.do(t, http.MethodGet, "/api/transactions/"+txn.ID, "mallory", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, http.MethodDelete, "/api/transactions/"+txn.ID, "mallory", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := s.do(t, http.MethodGet, "/api/accounts", "mallory", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, _ = s.do(t, http.MethodGet, "/api/transactions/"+txn.ID, s.db.Owner, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAccountLifecycle(t *testing.T) {
	s := setupServer(t)
	owner := s.db.Owner

	status, body := s.do(t, http.MethodPost, "/api/accounts", owner, fiber.Map{"name": "Petty Cash", "type": "ASSET"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var cash model.Account
	require.NoError(t, json.Unmarshal(body, &cash))

	status, _ = s.do(t, http.MethodPost, "/api/accounts", owner, fiber.Map{"name": "petty cash", "type": "ASSET"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = s.do(t, http.MethodPost, "/api/accounts", owner, fiber.Map{"name": "Misc", "type": "BOGUS"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, http.MethodPatch, "/api/accounts/"+cash.ID, owner, fiber.Map{"name": "Cash Box"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	var renamed model.Account
	require.NoError(t, json.Unmarshal(body, &renamed))
	assert.Equal(t, "Cash Box", renamed.Name)
	assert.Equal(t, model.AccountAsset, renamed.Type)

	status, _ = s.do(t, http.MethodPatch, "/api/accounts/"+cash.ID, owner, fiber.Map{"name": "Cash Box", "type": "EXPENSE"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodDelete, "/api/accounts/"+cash.ID, owner, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestDeleteAccountInUse(t *testing.T) {
	s := setupServer(t)
	s.postPurchase(t, "2024-01-15", "10")
	s.postPurchase(t, "2024-01-16", "20")

	status, body := s.do(t, http.MethodDelete, "/api/accounts/"+s.db.AccountID(accounts.Bank), s.db.Owner, nil)
	require.Equal(t, fiber.StatusConflict, status)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.EntryCount)
	assert.Equal(t, 2, *resp.EntryCount)
}

func TestSeedAccounts(t *testing.T) {
	s := setupServer(t)

	status, body := s.do(t, http.MethodPost, "/api/accounts/seed", "newcomer", nil)
	require.Equal(t, fiber.StatusOK, status)
	var seeded []model.Account
	require.NoError(t, json.Unmarshal(body, &seeded))
	assert.NotEmpty(t, seeded)

	status, body = s.do(t, http.MethodGet, "/api/accounts", "newcomer", nil)
	require.Equal(t, fiber.StatusOK, status)
	var listed []model.Account
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed, len(seeded))
}

func TestPaymentMethods(t *testing.T) {
	s := setupServer(t)
	owner := s.db.Owner
	bankID := s.db.AccountID(accounts.Bank)

	status, body := s.do(t, http.MethodPost, "/api/accounts/"+bankID+"/payment-methods", owner,
		fiber.Map{"kind": "DEBIT_CARD", "name": "Checking card", "last_four": "4242"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var pm model.PaymentMethod
	require.NoError(t, json.Unmarshal(body, &pm))
	assert.NotEmpty(t, pm.ID)

	status, _ = s.do(t, http.MethodPost, "/api/accounts/"+bankID+"/payment-methods", owner,
		fiber.Map{"kind": "DEBIT_CARD", "name": "Bad", "last_four": "42a2"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, http.MethodPut, "/api/payment-methods/"+pm.ID, owner,
		fiber.Map{"account_id": bankID, "kind": "DEBIT_CARD", "name": "Renamed", "last_four": "4242"})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/accounts/"+bankID+"/payment-methods", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var methods []model.PaymentMethod
	require.NoError(t, json.Unmarshal(body, &methods))
	require.Len(t, methods, 1)
	assert.Equal(t, "Renamed", methods[0].Name)

	status, _ = s.do(t, http.MethodDelete, "/api/payment-methods/"+pm.ID, owner, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestReports(t *testing.T) {
	s := setupServer(t)
	s.postPurchase(t, "2024-01-15", "42.50")
	s.postPurchase(t, "2024-02-03", "10")

	status, body := s.do(t, http.MethodGet, "/api/reports/financial?start=2024-01-01&end=2024-01-31", s.db.Owner, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var report model.FinancialReport
	require.NoError(t, json.Unmarshal(body, &report))
	require.Len(t, report.Transactions, 1)
	assert.Equal(t, model.ReportExpense, report.Transactions[0].Category)
	assert.True(t, report.Summary.Expenses.Equal(decimal.RequireFromString("42.50")))
	assert.True(t, report.Summary.Net.Equal(decimal.RequireFromString("-42.50")))

	status, body = s.do(t, http.MethodGet, "/api/reports/monthly", s.db.Owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var months []model.MonthlyFinancials
	require.NoError(t, json.Unmarshal(body, &months))
	require.Len(t, months, 2)
	assert.Equal(t, "2024-01", months[0].Key)

	status, body = s.do(t, http.MethodGet, "/api/reports/categories", s.db.Owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var groups []model.GroupTotal
	require.NoError(t, json.Unmarshal(body, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, accounts.OfficeSupplies, groups[0].Name)
	assert.True(t, groups[0].Amount.Equal(decimal.RequireFromString("52.50")))

	status, _ = s.do(t, http.MethodGet, "/api/reports/vendors?start=tomorrow", s.db.Owner, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestVendorMappings(t *testing.T) {
	s := setupServer(t)
	owner := s.db.Owner
	supplies := s.db.AccountID(accounts.OfficeSupplies)

	status, body := s.do(t, http.MethodPost, "/api/vendor-mappings", owner, fiber.Map{"pattern": "Staples", "account_id": supplies})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var mapping model.VendorMapping
	require.NoError(t, json.Unmarshal(body, &mapping))

	status, body = s.do(t, http.MethodGet, "/api/vendor-mappings/suggest?vendor=STAPLES%20%23123", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`{"matched":true,"account_id":%q}`, supplies), string(body))

	status, body = s.do(t, http.MethodGet, "/api/vendor-mappings/suggest?vendor=Costco", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"matched":false}`, string(body))

	status, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/vendor-mappings/%d", mapping.ID), owner, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = s.do(t, http.MethodDelete, "/api/vendor-mappings/abc", owner, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestVendorMappingsStayWithTheirOwner(t *testing.T) {
	s := setupServer(t)
	owner := s.db.Owner
	other := model.Owner("evil-owner")
	require.Len(t, string(other), len(string(owner)), "same-length owners share header buffer slots")

	status, body := s.do(t, http.MethodPost, "/api/vendor-mappings", owner,
		fiber.Map{"pattern": "amazon", "account_id": s.db.AccountID(accounts.OfficeSupplies)})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/vendor-mappings/suggest?vendor=amazon", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"matched":true`)

	status, body = s.do(t, http.MethodGet, "/api/vendor-mappings/suggest?vendor=amazon", other, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"matched":false}`, string(body))

	status, body = s.do(t, http.MethodGet, "/api/vendor-mappings", other, nil)
	require.Equal(t, fiber.StatusOK, status)
	var mappings []model.VendorMapping
	require.NoError(t, json.Unmarshal(body, &mappings))
	assert.Empty(t, mappings)

	status, body = s.do(t, http.MethodGet, "/api/vendor-mappings", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &mappings))
	require.Len(t, mappings, 1)
	assert.Equal(t, owner, mappings[0].OwnerID)
}

func TestEvidenceUnavailable(t *testing.T) {
	s := setupServer(t)
	txn := s.postPurchase(t, "2024-01-15", "1")

	status, _ := s.do(t, http.MethodGet, "/api/transactions/"+txn.ID+"/evidence", s.db.Owner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, http.MethodGet, "/api/transactions/"+txn.ID+"/evidence?ttl=-1m", s.db.Owner, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want int
	}{
		{name: "unauthorized", err: common.ErrUnauthorized, want: fiber.StatusUnauthorized},
		{name: "not found", err: fmt.Errorf("get: %w", common.ErrNotFound), want: fiber.StatusNotFound},
		{name: "conflict", err: common.ErrConflict, want: fiber.StatusConflict},
		{name: "duplicate", err: common.ErrDuplicateEntry, want: fiber.StatusConflict},
		{name: "in use", err: &common.AccountInUseError{AccountID: "a", EntryCount: 1}, want: fiber.StatusConflict},
		{name: "imbalance", err: &common.ImbalanceError{}, want: fiber.StatusUnprocessableEntity},
		{name: "invalid account", err: common.ErrInvalidAccount, want: fiber.StatusBadRequest},
		{name: "validation", err: storage.ErrInvalidTransaction, want: fiber.StatusBadRequest},
		{name: "fiber error", err: fiber.NewError(fiber.StatusTeapot, "tea"), want: fiber.StatusTeapot},
		{name: "partial write", err: &common.PartialWriteError{TransactionID: "t", Err: errors.New("disk")}, want: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
