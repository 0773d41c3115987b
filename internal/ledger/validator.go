// Package ledger holds the pure double-entry rules: balance validation, the
// normal-side balance convention, report classification and aggregation.
// Nothing in this package performs I/O.
package ledger

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
)

// Tolerance is the largest debit/credit difference still considered balanced.
var Tolerance = decimal.New(1, -2)

// MinEntries is the fewest legs a posted transaction may have.
const MinEntries = 2

// Totals sums the debit and credit sides of a set of proposed entries.
func Totals(entries []model.EntryInput) (debits, credits decimal.Decimal) {
	for _, e := range entries {
		switch e.Side {
		case model.SideDebit:
			debits = debits.Add(e.Amount)
		case model.SideCredit:
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits
}

// CheckBalance returns an *common.ImbalanceError carrying both totals when
// the entries differ by more than Tolerance.
func CheckBalance(entries []model.EntryInput) error {
	debits, credits := Totals(entries)
	if debits.Sub(credits).Abs().GreaterThan(Tolerance) {
		return &common.ImbalanceError{Debits: debits, Credits: credits}
	}
	return nil
}

// ValidateEntries checks the shape of every entry and then the balance.
func ValidateEntries(entries []model.EntryInput) error {
	if len(entries) < MinEntries {
		return fmt.Errorf("%w: a transaction needs at least %d entries, got %d",
			common.ErrInvalidInput, MinEntries, len(entries))
	}

	for i, e := range entries {
		if strings.TrimSpace(e.AccountID) == "" {
			return fmt.Errorf("%w: entry %d has no account", common.ErrInvalidInput, i)
		}
		if !e.Side.IsValid() {
			return fmt.Errorf("%w: entry %d has side %q", common.ErrInvalidInput, i, e.Side)
		}
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: entry %d has negative amount %s", common.ErrInvalidInput, i, e.Amount)
		}
	}

	return CheckBalance(entries)
}
