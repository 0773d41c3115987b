package classification

// DefaultPatterns are the built-in description patterns. Transfers outrank
// income so that "CREDIT CARD PAYMENT" is not read as a refund.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Transfers
		{Name: "Credit Card Payment", Kind: KindTransfer, Priority: 120,
			Regex: `\b(CC\s*PAYMENT|CREDIT\s*CARD\s*PAY(MENT)?|CARD\s*PAYMENT|AUTOPAY\s*PAYMENT|PAYMENT\s*THANK\s*YOU)\b`},
		{Name: "Savings Transfer", Kind: KindTransfer, Priority: 115,
			Regex: `\b(TO\s*SAVINGS|FROM\s*SAVINGS|SAVINGS\s*TRANSFER)\b`},
		{Name: "Investment Transfer", Kind: KindTransfer, Priority: 112,
			Regex: `\b(401K|IRA|ROTH|BROKERAGE)\s*(CONTRIBUTION|TRANSFER|ROLLOVER)\b`},
		{Name: "Wire Transfer", Kind: KindTransfer, Priority: 110,
			Regex: `\b(WIRE\s*IN|WIRE\s*OUT|WIRE\s*TRANSFER|WIRE\s*XFER)\b`},
		{Name: "Account Transfer", Kind: KindTransfer, Priority: 105,
			Regex: `\b(TRANSFER|XFER|TFR|ONLINE\s*BANKING\s*TRANSFER|ACCOUNT\s*TO\s*ACCOUNT)\b`},

		// Income
		{Name: "Direct Deposit", Kind: KindIncome, Priority: 100,
			Regex: `\b(DIRECTDEP|DIRECT\s*DEP(OSIT)?|DIR\s*DEP|PAYROLL|SALARY|WAGES)\b`},
		{Name: "Interest Income", Kind: KindIncome, Priority: 95,
			Regex: `\b(INTEREST|INT\s*EARNED|INT\s*INCOME|DIVIDEND)\b`},
		{Name: "Tax Refund", Kind: KindIncome, Priority: 92,
			Regex: `\b(TAX\s*REF|IRS\s*TREAS|STATE\s*TAX\s*REF|FED\s*TAX\s*REF)\b`},
		{Name: "Client Payment", Kind: KindIncome, Priority: 90,
			Regex: `\b(PAYMENT\s*FROM|INVOICE|CUSTOMER\s*PAY|STRIPE\s*TRANSFER|SQUARE\s*INC)\b`},
		{Name: "Rental Income", Kind: KindIncome, Priority: 85,
			Regex: `\b(RENT\s*INCOME|RENTAL\s*PAYMENT|TENANT)\b`},
		{Name: "Refund", Kind: KindIncome, Priority: 80,
			Regex: `\b(REFUND|REIMB|REIMBURSEMENT|CASHBACK|CASH\s*BACK)\b`},

		// Expenses
		{Name: "Fee", Kind: KindExpense, Priority: 60,
			Regex: `\b(FEE|SERVICE\s*CHG|PENALTY|OVERDRAFT)\b`},
		{Name: "ATM Withdrawal", Kind: KindExpense, Priority: 55,
			Regex: `\b(ATM|CASH\s*WITHDRAWAL|WITHDRAW)\b`},
		{Name: "Bill Payment", Kind: KindExpense, Priority: 50,
			Regex: `\b(BILL\s*PAY|RECURRING|SUBSCRIPTION)\b`},
	}
}
