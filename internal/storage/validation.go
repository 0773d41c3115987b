// Package storage provides the data persistence layer for the ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// Validation errors.
var (
	ErrNilContext           = errors.New("context cannot be nil")
	ErrEmptyString          = errors.New("string parameter cannot be empty")
	ErrNilParameter         = errors.New("parameter cannot be nil")
	ErrInvalidDateRange     = errors.New("start date must be before end date")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidVendorMapping = errors.New("invalid vendor mapping")
)

// validateScope ensures the context is usable and an owner is present.
func validateScope(ctx context.Context, owner model.Owner) error {
	if ctx == nil {
		return ErrNilContext
	}
	return owner.Validate()
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAccount checks the fields an account needs at creation.
func validateAccount(name string, accountType model.AccountType) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if !accountType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, accountType)
	}
	return nil
}

// validateTransactionInput checks header fields. Entry validation is the
// ledger validator's job.
func validateTransactionInput(input model.TransactionInput) error {
	if input.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	return nil
}

// validatePaymentMethod validates a card before it is written.
func validatePaymentMethod(pm *model.PaymentMethod) error {
	if pm == nil {
		return fmt.Errorf("%w: payment method", ErrNilParameter)
	}
	if strings.TrimSpace(pm.AccountID) == "" {
		return fmt.Errorf("%w: missing account", ErrInvalidPaymentMethod)
	}
	if !pm.Kind.IsValid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidPaymentMethod, pm.Kind)
	}
	if strings.TrimSpace(pm.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPaymentMethod)
	}
	return ValidateLastFour(pm.LastFour)
}

// ValidateLastFour requires exactly four ASCII digits.
func ValidateLastFour(lastFour string) error {
	if len(lastFour) != 4 {
		return fmt.Errorf("%w: last four must be exactly 4 digits, got %q", ErrInvalidPaymentMethod, lastFour)
	}
	for _, r := range lastFour {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: last four must be numeric, got %q", ErrInvalidPaymentMethod, lastFour)
		}
	}
	return nil
}

// IsValidationError reports whether err came from input validation rather
// than the database.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyString, ErrNilParameter, ErrInvalidDateRange, ErrInvalidAccountType,
		ErrInvalidTransaction, ErrInvalidPaymentMethod, ErrInvalidVendorMapping,
		common.ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
