package ledger

import (
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
)

// Balance accumulates entries for one account and reports the balance on the
// account type's normal side. Debit-normal accounts (assets, expenses) report
// debits minus credits; credit-normal accounts report credits minus debits.
type Balance struct {
	debits  decimal.Decimal
	credits decimal.Decimal
	normal  model.EntrySide
}

// NewBalance starts an empty balance for an account of type t.
func NewBalance(t model.AccountType) *Balance {
	return &Balance{normal: t.NormalSide()}
}

// Add folds one entry into the balance.
func (b *Balance) Add(amount decimal.Decimal, side model.EntrySide) {
	switch side {
	case model.SideDebit:
		b.debits = b.debits.Add(amount)
	case model.SideCredit:
		b.credits = b.credits.Add(amount)
	}
}

// Total returns the signed balance.
func (b *Balance) Total() decimal.Decimal {
	if b.normal == model.SideDebit {
		return b.debits.Sub(b.credits)
	}
	return b.credits.Sub(b.debits)
}

// AccountBalance computes the balance of an account from its entries.
func AccountBalance(t model.AccountType, entries []model.JournalEntry) decimal.Decimal {
	b := NewBalance(t)
	for _, e := range entries {
		b.Add(e.Amount, e.Side)
	}
	return b.Total()
}
