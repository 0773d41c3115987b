package sheets

import (
	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// Tab titles, in the order they appear in the spreadsheet.
const (
	TabSummary      = "Summary"
	TabMonthly      = "Monthly"
	TabCategories   = "Categories"
	TabVendors      = "Vendors"
	TabTransactions = "Transactions"
)

// Export holds everything written in one spreadsheet export.
type Export struct {
	Report     *model.FinancialReport
	Monthly    []model.MonthlyFinancials
	Categories []model.GroupTotal
	Vendors    []model.GroupTotal
	Balances   []model.AccountBalance
	Owner      model.Owner
}

// Tab is a sheet title and the rows written to it, header first.
type Tab struct {
	Title string
	Rows  [][]any
}
