package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestImbalanceError(t *testing.T) {
	err := fmt.Errorf("create transaction: %w", &ImbalanceError{
		Debits:  decimal.RequireFromString("100"),
		Credits: decimal.RequireFromString("90.5"),
	})

	assert.True(t, errors.Is(err, ErrImbalanced))

	var imbalance *ImbalanceError
	assert.True(t, errors.As(err, &imbalance))
	assert.Equal(t, "9.5", imbalance.Difference().String())
	assert.Contains(t, err.Error(), "debits 100.00 do not equal credits 90.50")
}

func TestAccountInUseError(t *testing.T) {
	err := fmt.Errorf("delete: %w", &AccountInUseError{AccountID: "acc-1", EntryCount: 3})

	assert.True(t, errors.Is(err, ErrAccountInUse))
	assert.Contains(t, err.Error(), "3 journal entries")
}

func TestPartialWriteError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := &PartialWriteError{TransactionID: "txn-1", Err: cause}

	assert.True(t, errors.Is(err, ErrPartialWrite))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "manual check required")
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not save", ErrNotFound)
	assert.Equal(t, "could not save: not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, "plain", (&UserError{UserMessage: "plain"}).Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "retryable wrapper", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "non retryable wrapper", err: &RetryableError{Err: errors.New("x")}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
