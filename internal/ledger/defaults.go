package ledger

import "github.com/Veraticus/the-books-must-balance/internal/model"

// DefaultAccount is one entry of the starter chart of accounts.
type DefaultAccount struct {
	Name string
	Type model.AccountType
}

// UncategorizedExpense is the starter expense account used when no vendor
// mapping matches an imported line.
const UncategorizedExpense = "Uncategorized Expense"

// DefaultChart is the chart seeded for an owner with no accounts yet.
var DefaultChart = []DefaultAccount{
	{Name: "Cash", Type: model.AccountAsset},
	{Name: "Bank", Type: model.AccountAsset},
	{Name: "Credit Card", Type: model.AccountLiability},
	{Name: "Owner's Equity", Type: model.AccountEquity},
	{Name: "Sales Income", Type: model.AccountIncome},
	{Name: "Office Supplies", Type: model.AccountExpense},
	{Name: "Meals & Entertainment", Type: model.AccountExpense},
	{Name: UncategorizedExpense, Type: model.AccountExpense},
}
