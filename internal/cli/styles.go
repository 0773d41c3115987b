// Package cli provides styled terminal output for the books command.
package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Palette. Green for the ledger itself, red for anything owed or failed.
var (
	ledgerGreen = lipgloss.Color("#2E8B57")
	okTeal      = lipgloss.Color("#4ECDC4")
	cautionGold = lipgloss.Color("#FFE66D")
	debtRed     = lipgloss.Color("#FF6B6B")
	noteMint    = lipgloss.Color("#95E1D3")
	dimGray     = lipgloss.Color("#666666")
	borderGray  = lipgloss.Color("#333")
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(okTeal)
	WarningStyle = lipgloss.NewStyle().Foreground(cautionGold)
	SubtleStyle  = lipgloss.NewStyle().Foreground(dimGray)

	// TableHeaderStyle and TableCellStyle pad columns rendered by RenderTable.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ledgerGreen).PaddingRight(2)
	TableCellStyle   = lipgloss.NewStyle().PaddingRight(2)

	errorStyle  = lipgloss.NewStyle().Foreground(debtRed)
	noteStyle   = lipgloss.NewStyle().Foreground(noteMint)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ledgerGreen)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(ledgerGreen)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderGray).
			Padding(1, 2)
)

// Icons prefixed to status lines and section titles.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	LedgerIcon  = "📒"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError is how a failed command reports itself on stderr.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

func FormatInfo(message string) string {
	return noteStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a section heading followed by a blank line.
func FormatTitle(title string) string {
	return titleStyle.MarginBottom(1).Render(title)
}

// FormatPrompt renders a question awaiting input.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// FormatAmount renders an amount with two decimals; negatives are red.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsNegative() {
		return errorStyle.Render(s)
	}
	return s
}

// RenderBox frames content under a bold title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content))
}
