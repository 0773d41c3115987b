package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/ledger"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
)

// DraftFromReceipt pre-fills an unposted transaction from OCR output. Every
// field is optional; whatever cannot be resolved is left empty for the user.
// The category comes from the vendor mapper, falling back to the
// uncategorized expense account. The paying account is the account of the
// card whose last four digits match, else defaultPaymentAccountID.
func (l *Ledger) DraftFromReceipt(ctx context.Context, owner model.Owner, fields model.ReceiptFields, defaultPaymentAccountID string) (*model.TransactionDraft, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	draft := &model.TransactionDraft{
		PaymentAccountID: defaultPaymentAccountID,
	}
	draft.Input.Description = strings.TrimSpace(fields.Vendor)
	if fields.Date != nil {
		draft.Input.Date = *fields.Date
	}

	if draft.Input.Description != "" {
		accountID, ok, err := l.SuggestCategory(ctx, owner, draft.Input.Description)
		if err != nil {
			return nil, err
		}
		if ok {
			draft.CategoryAccountID = accountID
			draft.Suggested = true
		}
	}
	if draft.CategoryAccountID == "" {
		if account, err := l.storage.GetAccountByName(ctx, owner, ledger.UncategorizedExpense); err == nil {
			draft.CategoryAccountID = account.ID
		}
	}

	if fields.CardLastFour != "" {
		pm, err := l.storage.FindPaymentMethodByLastFour(ctx, owner, fields.CardLastFour)
		switch {
		case err == nil:
			draft.PaymentAccountID = pm.AccountID
		case errors.Is(err, common.ErrNotFound):
		default:
			common.LogDebug(ctx, "could not match receipt card", common.Fields{
				"owner": owner.String(),
				"error": err.Error(),
			})
		}
	}

	total, ok := receiptTotal(fields)
	if ok && draft.CategoryAccountID != "" && draft.PaymentAccountID != "" {
		draft.Input.Entries = []model.EntryInput{
			{AccountID: draft.CategoryAccountID, Amount: total, Side: model.SideDebit},
			{AccountID: draft.PaymentAccountID, Amount: total, Side: model.SideCredit},
		}
	}

	return draft, nil
}

// receiptTotal prefers the printed total. Without one it adds up the line
// items, tax and tip.
func receiptTotal(fields model.ReceiptFields) (decimal.Decimal, bool) {
	if fields.TotalAmount != nil {
		return fields.TotalAmount.Abs(), true
	}
	if len(fields.LineItems) == 0 {
		return decimal.Zero, false
	}

	var total decimal.Decimal
	for _, item := range fields.LineItems {
		total = total.Add(item.Amount)
	}
	if fields.Tax != nil {
		total = total.Add(*fields.Tax)
	}
	if fields.Tip != nil {
		total = total.Add(*fields.Tip)
	}
	return total.Abs(), true
}
