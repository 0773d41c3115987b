package model

import "time"

// PaymentMethodKind distinguishes the card types attached to an account.
type PaymentMethodKind string

// Payment method kinds.
const (
	KindDebitCard  PaymentMethodKind = "DEBIT_CARD"
	KindCreditCard PaymentMethodKind = "CREDIT_CARD"
)

// IsValid reports whether k is a known payment method kind.
func (k PaymentMethodKind) IsValid() bool {
	return k == KindDebitCard || k == KindCreditCard
}

// PaymentMethod is a card linked to an account, used to match receipts
// to the account that paid them.
type PaymentMethod struct {
	CreatedAt time.Time         `json:"created_at"`
	ID        string            `json:"id"`
	AccountID string            `json:"account_id"`
	Kind      PaymentMethodKind `json:"kind"`
	Name      string            `json:"name"`
	LastFour  string            `json:"last_four"`
}
