package engine

import (
	"context"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/ledger"
	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// The reads below serve dashboards: a store failure is logged and produces an
// empty result rather than an error. Only a missing owner is returned.

// FinancialReport classifies every transaction in period and totals income
// and expenses. Transfers are listed but not summed.
func (l *Ledger) FinancialReport(ctx context.Context, owner model.Owner, period model.Period) (*model.FinancialReport, error) {
	report := &model.FinancialReport{
		Period:       period,
		Transactions: []model.ClassifiedTransaction{},
	}
	if err := owner.Validate(); err != nil {
		return report, err
	}

	txns, err := l.storage.ListLedgerTransactions(ctx, owner, period)
	if err != nil {
		l.readFailed(ctx, err, "financial report", owner)
		return report, nil
	}

	for _, txn := range txns {
		report.Transactions = append(report.Transactions, ledger.Classify(txn))
	}
	report.Summary = ledger.Summarize(report.Transactions)
	return report, nil
}

// MonthlyFinancials buckets income and expenses by calendar month, ascending.
func (l *Ledger) MonthlyFinancials(ctx context.Context, owner model.Owner, period model.Period) ([]model.MonthlyFinancials, error) {
	if err := owner.Validate(); err != nil {
		return []model.MonthlyFinancials{}, err
	}

	acc := ledger.NewMonthlyAccumulator()
	err := l.storage.StreamLedgerEntries(ctx, owner, period, func(line model.LedgerEntry) error {
		acc.Add(line)
		return nil
	})
	if err != nil {
		l.readFailed(ctx, err, "monthly financials", owner)
		return []model.MonthlyFinancials{}, nil
	}

	months := acc.Months()
	common.LogDebug(ctx, "computed monthly financials", common.Fields{
		"owner":              owner.String(),
		"months":             len(months),
		"cumulative_savings": acc.CumulativeSavings().StringFixed(2),
	})
	return months, nil
}

// CategorySpend totals expense debits per expense account, largest first.
func (l *Ledger) CategorySpend(ctx context.Context, owner model.Owner, period model.Period) ([]model.GroupTotal, error) {
	lines, err := l.expenseLines(ctx, owner, period, "category spend")
	if err != nil {
		return []model.GroupTotal{}, err
	}
	return ledger.CategorySpend(lines), nil
}

// VendorSpend totals expense debits per transaction description and keeps
// the top vendors.
func (l *Ledger) VendorSpend(ctx context.Context, owner model.Owner, period model.Period) ([]model.GroupTotal, error) {
	lines, err := l.expenseLines(ctx, owner, period, "vendor spend")
	if err != nil {
		return []model.GroupTotal{}, err
	}
	return ledger.VendorSpend(lines), nil
}

// expenseLines streams only the expense debits the spend breakdowns use.
func (l *Ledger) expenseLines(ctx context.Context, owner model.Owner, period model.Period, op string) ([]model.LedgerEntry, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	var lines []model.LedgerEntry
	err := l.storage.StreamLedgerEntries(ctx, owner, period, func(line model.LedgerEntry) error {
		if line.AccountType == model.AccountExpense && line.Side == model.SideDebit {
			lines = append(lines, line)
		}
		return nil
	})
	if err != nil {
		l.readFailed(ctx, err, op, owner)
		return nil, nil
	}
	return lines, nil
}

func (l *Ledger) readFailed(ctx context.Context, err error, op string, owner model.Owner) {
	common.LogError(ctx, err, "ledger read failed", common.Fields{
		"operation": op,
		"owner":     owner.String(),
	})
}
