// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrConflict       = errors.New("concurrent modification")

	// Authorization errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Ledger errors.
	ErrImbalanced     = errors.New("debits and credits do not balance")
	ErrInvalidAccount = errors.New("invalid account")
	ErrAccountInUse   = errors.New("account has transactions")
	ErrPartialWrite   = errors.New("partial write")
	ErrInvalidInput   = errors.New("invalid input")

	// Collaborator errors.
	ErrEvidenceUnavailable = errors.New("evidence unavailable")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ImbalanceError reports the two totals of a set of entries that failed the
// balance check so the caller can show the discrepancy.
type ImbalanceError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("debits %s do not equal credits %s",
		e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

// Is lets errors.Is(err, ErrImbalanced) match.
func (e *ImbalanceError) Is(target error) bool {
	return target == ErrImbalanced
}

// Difference is debits minus credits.
func (e *ImbalanceError) Difference() decimal.Decimal {
	return e.Debits.Sub(e.Credits)
}

// AccountInUseError is returned when deleting an account still referenced by
// journal entries.
type AccountInUseError struct {
	AccountID  string
	EntryCount int
}

func (e *AccountInUseError) Error() string {
	return fmt.Sprintf("account %s has %d journal entries", e.AccountID, e.EntryCount)
}

// Is lets errors.Is(err, ErrAccountInUse) match.
func (e *AccountInUseError) Is(target error) bool {
	return target == ErrAccountInUse
}

// PartialWriteError marks a write that may have left a transaction header
// without its entries. Manual intervention may be needed.
type PartialWriteError struct {
	Err           error
	TransactionID string
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("transaction %s may be partially written, manual check required: %v", e.TransactionID, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPartialWrite) match.
func (e *PartialWriteError) Is(target error) bool {
	return target == ErrPartialWrite
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
