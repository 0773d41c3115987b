package sheets

import (
	"testing"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleExport() Export {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return Export{
		Owner: "alice",
		Report: &model.FinancialReport{
			Period: model.Period{Start: jan, End: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
			Summary: model.ReportSummary{
				Income:   amt("1000"),
				Expenses: amt("42.5"),
				Net:      amt("957.5"),
			},
			Transactions: []model.ClassifiedTransaction{
				{Date: jan.AddDate(0, 0, 4), Description: "Paper", CategoryName: "Office Supplies", Category: model.ReportExpense, Amount: amt("42.5")},
				{Date: jan.AddDate(0, 0, 14), Description: "Invoice 7", CategoryName: "Sales Income", Category: model.ReportIncome, Amount: amt("1000")},
			},
		},
		Monthly: []model.MonthlyFinancials{
			{Key: "2024-01", Month: "Jan 2024", Income: amt("1000"), Expenses: amt("42.5"), Savings: amt("957.5")},
			{Key: "2024-02", Month: "Feb 2024", Income: amt("0"), Expenses: amt("100"), Savings: amt("-100")},
		},
		Categories: []model.GroupTotal{{Name: "Office Supplies", Amount: amt("42.5")}},
		Vendors:    []model.GroupTotal{{Name: "Paper", Amount: amt("42.5")}},
		Balances: []model.AccountBalance{
			{Account: model.Account{Name: "Bank", Type: model.AccountAsset}, Balance: amt("957.5")},
		},
	}
}

func TestBuildTabs(t *testing.T) {
	tabs := BuildTabs(sampleExport())
	require.Len(t, tabs, 5)

	titles := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		titles = append(titles, tab.Title)
	}
	assert.Equal(t, []string{TabSummary, TabMonthly, TabCategories, TabVendors, TabTransactions}, titles)

	summary := tabs[0].Rows
	assert.Equal(t, []any{"Financial Report", "Jan 1, 2024 - Jan 31, 2024"}, summary[0])
	assert.Equal(t, []any{"Income", "1000.00"}, summary[3])
	assert.Equal(t, []any{"Expenses", "42.50"}, summary[4])
	assert.Equal(t, []any{"Net", "957.50"}, summary[5])
	assert.Equal(t, []any{"Transactions", 2}, summary[6])
	assert.Equal(t, []any{"Bank", "ASSET", "957.50"}, summary[len(summary)-1])
}

func TestMonthlyRowsRunningSavings(t *testing.T) {
	rows := monthlyRows(sampleExport().Monthly)
	require.Len(t, rows, 3)
	assert.Equal(t, []any{"Jan 2024", "1000.00", "42.50", "957.50", "957.50"}, rows[1])
	assert.Equal(t, []any{"Feb 2024", "0.00", "100.00", "-100.00", "857.50"}, rows[2])
}

func TestTransactionRowsNewestFirst(t *testing.T) {
	export := sampleExport()
	rows := transactionRows(export.Report.Transactions)

	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-15", rows[1][0])
	assert.Equal(t, "INCOME", rows[1][3])
	assert.Equal(t, "2024-01-05", rows[2][0])
	assert.Equal(t, "Paper", export.Report.Transactions[0].Description, "input order is left alone")
}

func TestBuildTabsNilReport(t *testing.T) {
	tabs := BuildTabs(Export{})
	require.Len(t, tabs, 5)
	assert.Equal(t, []any{"Financial Report", "All time"}, tabs[0].Rows[0])
	assert.Len(t, tabs[4].Rows, 1)
}

func TestPeriodLabel(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		period model.Period
		want   string
	}{
		{"open", model.Period{}, "All time"},
		{"start only", model.Period{Start: day}, "From Mar 9, 2024"},
		{"end only", model.Period{End: day}, "Through Mar 9, 2024"},
		{"closed", model.Period{Start: day, End: day}, "Mar 9, 2024 - Mar 9, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, periodLabel(tt.period))
		})
	}
}

func TestMissingTabRequests(t *testing.T) {
	tabs := BuildTabs(Export{})
	requests := missingTabRequests(tabs, map[string]int64{TabSummary: 0, TabVendors: 9})

	require.Len(t, requests, 3)
	assert.Equal(t, TabMonthly, requests[0].AddSheet.Properties.Title)
	assert.Equal(t, TabCategories, requests[1].AddSheet.Properties.Title)
	assert.Equal(t, TabTransactions, requests[2].AddSheet.Properties.Title)
}

func TestFormatRequests(t *testing.T) {
	requests := formatRequests(7, Tab{Title: TabMonthly, Rows: monthlyRows(nil)})
	require.Len(t, requests, 3)
	assert.Equal(t, int64(7), requests[0].RepeatCell.Range.SheetId)
	assert.Equal(t, int64(5), requests[0].RepeatCell.Range.EndColumnIndex)
	assert.Equal(t, int64(1), requests[1].UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
}

func TestTabRange(t *testing.T) {
	assert.Equal(t, "'Transactions'!A1001", tabRange(TabTransactions, 1001))
}
