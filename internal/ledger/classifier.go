package ledger

import (
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
)

// Classify assigns a report category to a transaction from the types of the
// accounts it touches.
//
// An income account wins over an expense account when a compound transaction
// carries both. The display amount is the amount of the deciding entry,
// whichever side it sits on. Transactions that touch only balance-sheet
// accounts are transfers, shown with the first entry's amount.
func Classify(txn model.LedgerTransaction) model.ClassifiedTransaction {
	out := model.ClassifiedTransaction{
		TransactionID: txn.ID,
		Date:          txn.Date,
		Description:   txn.Description,
	}

	var income, expense *model.LedgerEntry
	for i := range txn.Lines {
		line := &txn.Lines[i]
		switch line.AccountType {
		case model.AccountIncome:
			if income == nil {
				income = line
			}
		case model.AccountExpense:
			if expense == nil {
				expense = line
			}
		}
	}

	switch {
	case income != nil:
		out.Category = model.ReportIncome
		out.CategoryName = income.AccountName
		out.Amount = income.Amount
	case expense != nil:
		out.Category = model.ReportExpense
		out.CategoryName = expense.AccountName
		out.Amount = expense.Amount
	default:
		out.Category = model.ReportTransfer
		out.CategoryName = model.TransferLabel
		if len(txn.Lines) > 0 {
			out.Amount = txn.Lines[0].Amount
		}
	}

	return out
}

// Summarize totals classified transactions. Transfers are not counted.
func Summarize(classified []model.ClassifiedTransaction) model.ReportSummary {
	var income, expenses decimal.Decimal
	for _, c := range classified {
		switch c.Category {
		case model.ReportIncome:
			income = income.Add(c.Amount)
		case model.ReportExpense:
			expenses = expenses.Add(c.Amount)
		}
	}
	return model.ReportSummary{
		Income:   income,
		Expenses: expenses,
		Net:      income.Sub(expenses),
	}
}
