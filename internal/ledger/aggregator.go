package ledger

import (
	"sort"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
)

const (
	monthKeyLayout   = "2006-01"
	monthLabelLayout = "Jan 2006"

	// TopVendors is how many vendors VendorSpend returns.
	TopVendors = 10
)

// MonthlyAccumulator buckets streamed ledger entries by calendar month.
type MonthlyAccumulator struct {
	buckets map[string]*model.MonthlyFinancials
}

// NewMonthlyAccumulator returns an empty accumulator.
func NewMonthlyAccumulator() *MonthlyAccumulator {
	return &MonthlyAccumulator{buckets: make(map[string]*model.MonthlyFinancials)}
}

// Add folds one entry into its month. Income accrues on credits and expenses
// on debits; the opposite side reverses them.
func (m *MonthlyAccumulator) Add(line model.LedgerEntry) {
	key := line.Date.Format(monthKeyLayout)
	bucket, ok := m.buckets[key]
	if !ok {
		bucket = &model.MonthlyFinancials{
			Key:   key,
			Month: line.Date.Format(monthLabelLayout),
		}
		m.buckets[key] = bucket
	}

	switch line.AccountType {
	case model.AccountIncome:
		if line.Side == model.SideCredit {
			bucket.Income = bucket.Income.Add(line.Amount)
		} else {
			bucket.Income = bucket.Income.Sub(line.Amount)
		}
	case model.AccountExpense:
		if line.Side == model.SideDebit {
			bucket.Expenses = bucket.Expenses.Add(line.Amount)
		} else {
			bucket.Expenses = bucket.Expenses.Sub(line.Amount)
		}
	}
}

// Months returns the buckets sorted ascending by month with savings filled in.
func (m *MonthlyAccumulator) Months() []model.MonthlyFinancials {
	out := make([]model.MonthlyFinancials, 0, len(m.buckets))
	for _, b := range m.buckets {
		month := *b
		month.Savings = month.Income.Sub(month.Expenses)
		out = append(out, month)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// CumulativeSavings is the running savings total across all buckets.
func (m *MonthlyAccumulator) CumulativeSavings() decimal.Decimal {
	var total decimal.Decimal
	for _, month := range m.Months() {
		total = total.Add(month.Savings)
	}
	return total
}

// MonthlyFinancials buckets a batch of entries in one call.
func MonthlyFinancials(lines []model.LedgerEntry) []model.MonthlyFinancials {
	acc := NewMonthlyAccumulator()
	for _, line := range lines {
		acc.Add(line)
	}
	return acc.Months()
}

// CategorySpend sums debit entries on expense accounts per account name,
// largest first.
func CategorySpend(lines []model.LedgerEntry) []model.GroupTotal {
	return groupDescending(lines, func(l model.LedgerEntry) string { return l.AccountName }, 0)
}

// VendorSpend sums debit entries on expense accounts per transaction
// description, which stands in for the vendor, and keeps the top TopVendors.
func VendorSpend(lines []model.LedgerEntry) []model.GroupTotal {
	return groupDescending(lines, func(l model.LedgerEntry) string { return l.Description }, TopVendors)
}

func groupDescending(lines []model.LedgerEntry, key func(model.LedgerEntry) string, limit int) []model.GroupTotal {
	totals := make(map[string]decimal.Decimal)
	for _, line := range lines {
		if line.AccountType != model.AccountExpense || line.Side != model.SideDebit {
			continue
		}
		k := key(line)
		totals[k] = totals[k].Add(line.Amount)
	}

	out := make([]model.GroupTotal, 0, len(totals))
	for name, amount := range totals {
		out = append(out, model.GroupTotal{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
