package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 3,
			expectedError: false,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
			expectedError: false,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedCount: 0,
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedCount: 0,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			reader := strings.NewReader(tt.ofxData)

			transactions, err := parser.ParseFile(context.Background(), reader)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, transactions, tt.expectedCount)
			}
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleBankOFX)

	lines, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	tests := []struct {
		date        time.Time
		externalID  string
		description string
		amount      string
	}{
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "2024011501", "STARBUCKS STORE #1234", "-25.50"},
		{time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "2024012001", "Whole Foods Market", "-125.00"},
		{time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), "2024012501", "CHECK #1234", "-500.00"},
	}

	for i, tt := range tests {
		line := lines[i]
		assert.Equal(t, tt.externalID, line.ExternalID)
		assert.Equal(t, tt.description, line.Description)
		assert.True(t, decimal.RequireFromString(tt.amount).Equal(line.Amount), "amount %s, got %s", tt.amount, line.Amount)
		assert.Equal(t, "1234567890", line.AccountRef)
		assert.True(t, tt.date.Equal(line.Date), "date %s, got %s", tt.date, line.Date)
	}
}

func TestParseCreditCardTransactions(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleCreditCardOFX)

	lines, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	amazon := lines[0]
	assert.Equal(t, "CC2024011001", amazon.ExternalID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", amazon.Description)
	assert.True(t, decimal.RequireFromString("-45.99").Equal(amazon.Amount))
	assert.Equal(t, "4111111111111111", amazon.AccountRef)

	netflix := lines[1]
	assert.Equal(t, "CC2024011501", netflix.ExternalID)
	assert.Equal(t, "NETFLIX.COM", netflix.Description)
	assert.True(t, decimal.RequireFromString("-15").Equal(netflix.Amount))
}

func TestParseDeposit(t *testing.T) {
	deposit := strings.Replace(sampleBankOFX, "<TRNAMT>-125.00", "<TRNAMT>1500.00", 1)

	lines, err := NewParser().ParseFile(context.Background(), strings.NewReader(deposit))
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.True(t, lines[1].Amount.IsPositive())
	assert.Equal(t, "1500", lines[1].Amount.String())
}

func TestExtractMerchantName(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"},
			expected: "WHOLE FOODS",
		},
		{
			name:     "keep clean name",
			tx:       ofxgo.Transaction{Name: "NETFLIX.COM"},
			expected: "NETFLIX.COM",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
		{
			name:     "strip leading date",
			tx:       ofxgo.Transaction{Name: "PURCHASE AUTHORIZED ON 01/14 SHELL OIL"},
			expected: "SHELL OIL",
		},
		{
			name:     "memo replaces generic name",
			tx:       ofxgo.Transaction{Name: "DEBIT", Memo: "CITY PARKING"},
			expected: "CITY PARKING",
		},
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "SQ *BLUE BOTTLE", Payee: &ofxgo.Payee{Name: "Blue Bottle Coffee"}},
			expected: "Blue Bottle Coffee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.extractMerchantName(tt.tx))
		})
	}
}

func TestPreprocessOFX(t *testing.T) {
	parser := NewParser()

	got := parser.preprocessOFX("\n\n<SEVERITY>Info</SEVERITY>\n<BANKTRANLIST\n")
	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<BANKTRANLIST>\n", got)
}

func TestGetAccounts(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		ofxData  string
		expected []string
	}{
		{name: "bank statement", ofxData: sampleBankOFX, expected: []string{"1234567890"}},
		{name: "credit card statement", ofxData: sampleCreditCardOFX, expected: []string{"4111111111111111"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts, err := parser.GetAccounts(context.Background(), strings.NewReader(tt.ofxData))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, accounts)
		})
	}

	_, err := parser.GetAccounts(context.Background(), strings.NewReader("garbage"))
	assert.Error(t, err)
}
