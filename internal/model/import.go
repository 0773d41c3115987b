package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is a single line read from a bank or card statement. Amount is
// signed from the account holder's point of view: negative is money out.
type StatementLine struct {
	Date        time.Time
	Amount      decimal.Decimal
	ExternalID  string
	Description string
	AccountRef  string
}

// ReceiptFields are the fields an OCR collaborator extracts from a receipt
// image. Every field is optional.
type ReceiptFields struct {
	Date         *time.Time
	TotalAmount  *decimal.Decimal
	Tax          *decimal.Decimal
	Tip          *decimal.Decimal
	Vendor       string
	CardLastFour string
	LineItems    []ReceiptLineItem
}

// ReceiptLineItem is an itemized line on a receipt.
type ReceiptLineItem struct {
	Amount      decimal.Decimal
	Description string
}

// TransactionDraft is an unposted, pre-filled transaction. It still has to
// pass validation when posted.
type TransactionDraft struct {
	Input             TransactionInput
	CategoryAccountID string
	PaymentAccountID  string
	Suggested         bool
}
