package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/classification"
	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/pattern"
)

// ImportProgress receives one tick per processed statement line.
type ImportProgress interface {
	Add(n int) error
}

// ImportOptions configures a statement import.
type ImportOptions struct {
	// Progress is optional.
	Progress ImportProgress
	// AccountID is the bank or card account the statement belongs to.
	AccountID string
	// FallbackAccountID receives lines no vendor mapping matches.
	FallbackAccountID string
	// IncomeAccountID and TransferAccountID are optional. When set, unmapped
	// lines that look like income or like transfers between the owner's own
	// accounts go there instead of the fallback.
	IncomeAccountID   string
	TransferAccountID string
}

// ImportResult counts what an import did.
type ImportResult struct {
	TransactionIDs []string
	Imported       int
	Skipped        int
	Suggested      int
	Detected       int
}

// ImportStatement posts each statement line as a two-leg transaction between
// the statement account and the category the vendor mapper suggests. Money out
// debits the category; money in credits it. Lines already imported, matched by
// their external ID, are skipped.
func (l *Ledger) ImportStatement(ctx context.Context, owner model.Owner, lines []model.StatementLine, opts ImportOptions) (*ImportResult, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	refs := []string{opts.AccountID, opts.FallbackAccountID}
	for _, optional := range []string{opts.IncomeAccountID, opts.TransferAccountID} {
		if optional != "" {
			refs = append(refs, optional)
		}
	}
	for _, ref := range refs {
		if _, err := l.storage.GetAccount(ctx, owner, ref); err != nil {
			return nil, fmt.Errorf("%w: statement accounts: %w", common.ErrInvalidAccount, err)
		}
	}

	mappings, err := l.storage.GetVendorMappings(ctx, owner)
	if err != nil {
		// Import still works, everything lands in the fallback account.
		l.readFailed(ctx, err, "import vendor mappings", owner)
	}
	matcher := pattern.NewMatcher(mappings)

	result := &ImportResult{}
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		posted, route, err := l.importLine(ctx, owner, line, matcher, opts)
		if err != nil {
			return result, fmt.Errorf("failed to import %q on %s: %w",
				line.Description, line.Date.Format(model.DateLayout), err)
		}
		if posted == "" {
			result.Skipped++
		} else {
			result.Imported++
			result.TransactionIDs = append(result.TransactionIDs, posted)
			switch route {
			case routeMapping:
				result.Suggested++
			case routeDetected:
				result.Detected++
			}
		}

		if opts.Progress != nil {
			_ = opts.Progress.Add(1)
		}
	}

	common.LogInfo(ctx, "imported statement", common.Fields{
		"owner":     owner.String(),
		"imported":  result.Imported,
		"skipped":   result.Skipped,
		"suggested": result.Suggested,
		"detected":  result.Detected,
	})
	return result, nil
}

// lineRoute records how an imported line's category was chosen.
type lineRoute int

const (
	routeFallback lineRoute = iota
	routeMapping
	routeDetected
)

// categorize picks the counter-account for a line: a vendor mapping first,
// then a detected income or transfer account when one is configured, then
// the fallback.
func (l *Ledger) categorize(line model.StatementLine, matcher *pattern.Matcher, opts ImportOptions) (string, lineRoute) {
	if mapping, ok := matcher.Match(line.Description); ok {
		return mapping.AccountID, routeMapping
	}

	if match, ok := l.detector.Detect(line); ok {
		switch {
		case match.Kind == classification.KindIncome && opts.IncomeAccountID != "":
			return opts.IncomeAccountID, routeDetected
		case match.Kind == classification.KindTransfer && opts.TransferAccountID != "" && opts.TransferAccountID != opts.AccountID:
			return opts.TransferAccountID, routeDetected
		}
	}

	return opts.FallbackAccountID, routeFallback
}

// importLine returns the new transaction ID, or "" when the line is skipped.
func (l *Ledger) importLine(ctx context.Context, owner model.Owner, line model.StatementLine, matcher *pattern.Matcher, opts ImportOptions) (string, lineRoute, error) {
	if line.Amount.IsZero() {
		return "", routeFallback, nil
	}
	if line.ExternalID != "" {
		seen, err := l.storage.HasExternalID(ctx, owner, line.ExternalID)
		if err != nil {
			return "", routeFallback, err
		}
		if seen {
			return "", routeFallback, nil
		}
	}

	category, route := l.categorize(line, matcher, opts)

	description := strings.TrimSpace(line.Description)
	if description == "" {
		description = "Imported transaction"
	}

	debit, credit := category, opts.AccountID
	if line.Amount.IsPositive() {
		debit, credit = opts.AccountID, category
	}
	value := line.Amount.Abs()

	txn, err := l.storage.CreateTransaction(ctx, owner, model.TransactionInput{
		Date:        line.Date,
		Description: description,
		ExternalID:  line.ExternalID,
		Entries: []model.EntryInput{
			{AccountID: debit, Amount: value, Side: model.SideDebit},
			{AccountID: credit, Amount: value, Side: model.SideCredit},
		},
	})
	if errors.Is(err, common.ErrDuplicateEntry) {
		return "", routeFallback, nil
	}
	if err != nil {
		return "", routeFallback, err
	}
	return txn.ID, route, nil
}
