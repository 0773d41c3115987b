package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportCategory is the reporting classification of a whole transaction.
type ReportCategory string

// Report categories.
const (
	ReportIncome   ReportCategory = "INCOME"
	ReportExpense  ReportCategory = "EXPENSE"
	ReportTransfer ReportCategory = "TRANSFER"
)

// TransferLabel is the display category for transactions that touch only
// balance-sheet accounts.
const TransferLabel = "Transfer/Adjustment"

// Period is an inclusive date range. A zero Start or End leaves that side open.
type Period struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// Contains reports whether d falls inside the period, compared by calendar day.
func (p Period) Contains(d time.Time) bool {
	day := d.Format(DateLayout)
	if !p.Start.IsZero() && day < p.Start.Format(DateLayout) {
		return false
	}
	if !p.End.IsZero() && day > p.End.Format(DateLayout) {
		return false
	}
	return true
}

// AccountBalance pairs an account with its derived balance.
type AccountBalance struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// ClassifiedTransaction is a transaction with its report category applied.
type ClassifiedTransaction struct {
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	Description   string          `json:"description"`
	CategoryName  string          `json:"category_name"`
	Category      ReportCategory  `json:"category"`
}

// ReportSummary totals a financial report.
type ReportSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// FinancialReport is the classified view of an owner's transactions in a period.
type FinancialReport struct {
	Period       Period                  `json:"period"`
	Summary      ReportSummary           `json:"summary"`
	Transactions []ClassifiedTransaction `json:"transactions"`
}

// MonthlyFinancials is one calendar-month bucket of income and expenses.
type MonthlyFinancials struct {
	Key      string          `json:"key"`   // YYYY-MM
	Month    string          `json:"month"` // e.g. "Jan 2024"
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// GroupTotal is a named sum used by category and vendor spend breakdowns.
type GroupTotal struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
