package ledger

import (
	"testing"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func journal(amount string, side model.EntrySide) model.JournalEntry {
	return model.JournalEntry{Amount: decimal.RequireFromString(amount), Side: side}
}

func TestAccountBalance_SignConvention(t *testing.T) {
	tests := []struct {
		name        string
		accountType model.AccountType
		want        string
		entries     []model.JournalEntry
	}{
		{
			name:        "asset is debit normal",
			accountType: model.AccountAsset,
			entries:     []model.JournalEntry{journal("100", model.SideDebit), journal("30", model.SideCredit)},
			want:        "70",
		},
		{
			name:        "income is credit normal",
			accountType: model.AccountIncome,
			entries:     []model.JournalEntry{journal("500", model.SideCredit), journal("50", model.SideDebit)},
			want:        "450",
		},
		{
			name:        "expense is debit normal",
			accountType: model.AccountExpense,
			entries:     []model.JournalEntry{journal("42.50", model.SideDebit)},
			want:        "42.5",
		},
		{
			name:        "liability is credit normal",
			accountType: model.AccountLiability,
			entries:     []model.JournalEntry{journal("200", model.SideCredit), journal("75", model.SideDebit)},
			want:        "125",
		},
		{
			name:        "equity is credit normal",
			accountType: model.AccountEquity,
			entries:     []model.JournalEntry{journal("1000", model.SideCredit)},
			want:        "1000",
		},
		{
			name:        "asset overdrawn goes negative",
			accountType: model.AccountAsset,
			entries:     []model.JournalEntry{journal("42.50", model.SideCredit)},
			want:        "-42.5",
		},
		{
			name:        "no entries",
			accountType: model.AccountAsset,
			want:        "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccountBalance(tt.accountType, tt.entries)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestNormalSide(t *testing.T) {
	assert.Equal(t, model.SideDebit, model.AccountAsset.NormalSide())
	assert.Equal(t, model.SideDebit, model.AccountExpense.NormalSide())
	assert.Equal(t, model.SideCredit, model.AccountLiability.NormalSide())
	assert.Equal(t, model.SideCredit, model.AccountEquity.NormalSide())
	assert.Equal(t, model.SideCredit, model.AccountIncome.NormalSide())
}
