// Package model defines the core domain models used throughout the application.
package model

import "time"

// AccountType is the accounting classification of an account. It decides the
// account's normal side and therefore the sign of its balance.
type AccountType string

// Account type constants.
const (
	AccountAsset     AccountType = "ASSET"
	AccountLiability AccountType = "LIABILITY"
	AccountEquity    AccountType = "EQUITY"
	AccountIncome    AccountType = "INCOME"
	AccountExpense   AccountType = "EXPENSE"
)

// AccountTypes lists every valid account type in chart order.
var AccountTypes = []AccountType{
	AccountAsset,
	AccountLiability,
	AccountEquity,
	AccountIncome,
	AccountExpense,
}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountIncome, AccountExpense:
		return true
	}
	return false
}

// NormalSide returns the side on which the account type accrues.
// Assets and expenses are debit-normal, everything else is credit-normal.
func (t AccountType) NormalSide() EntrySide {
	switch t {
	case AccountAsset, AccountExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Account is a named, typed ledger account in an owner's chart of accounts.
// Type is fixed at creation.
type Account struct {
	CreatedAt time.Time   `json:"created_at"`
	ID        string      `json:"id"`
	OwnerID   Owner       `json:"owner_id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
}
