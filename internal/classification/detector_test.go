package classification

import (
	"testing"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(description, amount string) model.StatementLine {
	return model.StatementLine{Description: description, Amount: decimal.RequireFromString(amount)}
}

func TestNewDetector(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		patterns []Pattern
		wantLen  int
		wantErr  bool
	}{
		{
			name: "valid patterns",
			patterns: []Pattern{
				{Name: "Direct Deposit", Kind: KindIncome, Regex: `DIRECTDEP`, Priority: 100},
				{Name: "ATM", Kind: KindExpense, Regex: `ATM`, Priority: 50},
			},
			wantLen: 2,
		},
		{
			name:     "invalid regex",
			patterns: []Pattern{{Name: "Bad Pattern", Kind: KindIncome, Regex: `[invalid regex`}},
			wantErr:  true,
			errMsg:   "failed to compile pattern Bad Pattern",
		},
		{
			name:     "empty patterns",
			patterns: []Pattern{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDetector(tt.patterns)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, d.Len())
		})
	}
}

func TestDetectorPriority(t *testing.T) {
	d, err := NewDetector([]Pattern{
		{Name: "low", Kind: KindTransfer, Regex: `PAY`, Priority: 1},
		{Name: "high", Kind: KindTransfer, Regex: `PAYMENT`, Priority: 10},
	})
	require.NoError(t, err)

	m, ok := d.Detect(line("CARD PAYMENT", "-5"))
	require.True(t, ok)
	assert.Equal(t, "high", m.Pattern)
}

func TestDefaultDetector(t *testing.T) {
	d := Default()

	tests := []struct {
		name        string
		line        model.StatementLine
		wantPattern string
		wantKind    Kind
		wantMatch   bool
	}{
		{
			name:        "payroll deposit",
			line:        line("ACME CORP DIRECT DEP PPD", "2500.00"),
			wantPattern: "Direct Deposit",
			wantKind:    KindIncome,
			wantMatch:   true,
		},
		{
			name:      "payroll text on money out is not income",
			line:      line("PAYROLL SERVICE", "-120.00"),
			wantMatch: false,
		},
		{
			name:        "card payment beats refund",
			line:        line("CREDIT CARD PAYMENT THANK YOU", "500.00"),
			wantPattern: "Credit Card Payment",
			wantKind:    KindTransfer,
			wantMatch:   true,
		},
		{
			name:        "transfer out",
			line:        line("ONLINE TRANSFER TO SAVINGS 1234", "-200.00"),
			wantPattern: "Savings Transfer",
			wantKind:    KindTransfer,
			wantMatch:   true,
		},
		{
			name:        "interest",
			line:        line("INTEREST PAYMENT", "0.42"),
			wantPattern: "Interest Income",
			wantKind:    KindIncome,
			wantMatch:   true,
		},
		{
			name:        "monthly fee",
			line:        line("MONTHLY MAINTENANCE FEE", "-12.00"),
			wantPattern: "Fee",
			wantKind:    KindExpense,
			wantMatch:   true,
		},
		{
			name:      "fee reversal is not an expense",
			line:      line("FEE", "12.00"),
			wantMatch: false,
		},
		{
			name:      "ordinary merchant",
			line:      line("STARBUCKS", "-4.50"),
			wantMatch: false,
		},
		{
			name:      "blank description",
			line:      line("  ", "10"),
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := d.Detect(tt.line)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantPattern, m.Pattern)
				assert.Equal(t, tt.wantKind, m.Kind)
			}
		})
	}
}
