package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide is the debit or credit side of a journal entry.
type EntrySide string

// Entry sides.
const (
	SideDebit  EntrySide = "DEBIT"
	SideCredit EntrySide = "CREDIT"
)

// IsValid reports whether s is DEBIT or CREDIT.
func (s EntrySide) IsValid() bool {
	return s == SideDebit || s == SideCredit
}

// DateLayout is the storage and wire format for transaction dates.
const DateLayout = "2006-01-02"

// Transaction is the header of a balanced set of journal entries.
type Transaction struct {
	Date        time.Time      `json:"date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ID          string         `json:"id"`
	OwnerID     Owner          `json:"owner_id"`
	Description string         `json:"description"`
	EvidenceRef string         `json:"evidence_ref,omitempty"`
	ExternalID  string         `json:"external_id,omitempty"`
	Entries     []JournalEntry `json:"entries"`
	Version     int            `json:"version"`
}

// JournalEntry is one leg of a transaction against a single account.
// Amounts are never negative; direction is carried by Side.
type JournalEntry struct {
	Amount        decimal.Decimal `json:"amount"`
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Side          EntrySide       `json:"side"`
}

// EntryInput is a proposed journal entry supplied by a caller.
type EntryInput struct {
	Amount    decimal.Decimal `json:"amount"`
	AccountID string          `json:"account_id"`
	Side      EntrySide       `json:"side"`
}

// TransactionInput carries the mutable fields of a transaction for create and
// update. Version is only consulted on update and must equal the version the
// caller last read.
type TransactionInput struct {
	Date        time.Time    `json:"date"`
	Description string       `json:"description"`
	EvidenceRef string       `json:"evidence_ref,omitempty"`
	ExternalID  string       `json:"external_id,omitempty"`
	Entries     []EntryInput `json:"entries"`
	Version     int          `json:"version,omitempty"`
}

// LedgerEntry is a journal entry joined with its account and transaction
// header, the row shape consumed by balances, classification and aggregation.
type LedgerEntry struct {
	Date          time.Time
	Amount        decimal.Decimal
	TransactionID string
	Description   string
	AccountID     string
	AccountName   string
	AccountType   AccountType
	Side          EntrySide
}

// LedgerTransaction is a transaction header with its entries resolved
// against the chart of accounts.
type LedgerTransaction struct {
	Transaction
	Lines []LedgerEntry `json:"-"`
}
