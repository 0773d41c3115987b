package sheets

import (
	"sort"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
)

const dateDisplay = "Jan 2, 2006"

// BuildTabs lays out an export as spreadsheet tabs. A nil report produces
// empty tabs with headers only.
func BuildTabs(export Export) []Tab {
	report := export.Report
	if report == nil {
		report = &model.FinancialReport{}
	}

	return []Tab{
		{Title: TabSummary, Rows: summaryRows(export.Owner, report, export.Balances)},
		{Title: TabMonthly, Rows: monthlyRows(export.Monthly)},
		{Title: TabCategories, Rows: groupRows("Category", export.Categories)},
		{Title: TabVendors, Rows: groupRows("Vendor", export.Vendors)},
		{Title: TabTransactions, Rows: transactionRows(report.Transactions)},
	}
}

func summaryRows(owner model.Owner, report *model.FinancialReport, balances []model.AccountBalance) [][]any {
	rows := make([][]any, 0, 8+len(balances))
	rows = append(rows,
		[]any{"Financial Report", periodLabel(report.Period)},
		[]any{"Owner", string(owner)},
		[]any{},
		[]any{"Income", money(report.Summary.Income)},
		[]any{"Expenses", money(report.Summary.Expenses)},
		[]any{"Net", money(report.Summary.Net)},
		[]any{"Transactions", len(report.Transactions)},
	)

	if len(balances) == 0 {
		return rows
	}

	rows = append(rows, []any{}, []any{"Account", "Type", "Balance"})
	for _, b := range balances {
		rows = append(rows, []any{b.Account.Name, string(b.Account.Type), money(b.Balance)})
	}
	return rows
}

func monthlyRows(months []model.MonthlyFinancials) [][]any {
	rows := make([][]any, 0, len(months)+1)
	rows = append(rows, []any{"Month", "Income", "Expenses", "Savings", "Cumulative Savings"})

	running := decimal.Zero
	for _, m := range months {
		running = running.Add(m.Savings)
		rows = append(rows, []any{m.Month, money(m.Income), money(m.Expenses), money(m.Savings), money(running)})
	}
	return rows
}

func groupRows(label string, groups []model.GroupTotal) [][]any {
	rows := make([][]any, 0, len(groups)+1)
	rows = append(rows, []any{label, "Amount"})
	for _, g := range groups {
		rows = append(rows, []any{g.Name, money(g.Amount)})
	}
	return rows
}

// transactionRows lists transactions newest first.
func transactionRows(txns []model.ClassifiedTransaction) [][]any {
	sorted := make([]model.ClassifiedTransaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	rows := make([][]any, 0, len(sorted)+1)
	rows = append(rows, []any{"Date", "Description", "Category", "Type", "Amount"})
	for _, t := range sorted {
		rows = append(rows, []any{
			t.Date.Format(model.DateLayout),
			t.Description,
			t.CategoryName,
			string(t.Category),
			money(t.Amount),
		})
	}
	return rows
}

func periodLabel(p model.Period) string {
	switch {
	case p.Start.IsZero() && p.End.IsZero():
		return "All time"
	case p.Start.IsZero():
		return "Through " + p.End.Format(dateDisplay)
	case p.End.IsZero():
		return "From " + p.Start.Format(dateDisplay)
	default:
		return p.Start.Format(dateDisplay) + " - " + p.End.Format(dateDisplay)
	}
}

// money renders an amount so USER_ENTERED input parses it as a number.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
